//go:build opencl

package clfft

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"OSR/internal/fft"
	"OSR/internal/grid"
)

// Solver owns the device context, the three kernels, the butterfly table and
// a pair of ping-pong buffers sized for one grid.
type Solver struct {
	context       *cl.Context
	queue         *cl.CommandQueue
	program       *cl.Program
	hstepKernel   *cl.Kernel
	vstepKernel   *cl.Kernel
	permuteKernel *cl.Kernel
	butterflyBuf  *cl.MemObject
	pingBuf       *cl.MemObject
	pongBuf       *cl.MemObject
	n             int
	stages        int
	scale         float32
	deviceName    string
	host          []float32
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

// New compiles the kernels and uploads the butterfly table for g.
func New(g grid.Grid, table *fft.Butterfly, scale float64) (*Solver, error) {
	if table.N() != g.N() {
		return nil, fmt.Errorf("%w: butterfly for %d, grid %d", fft.ErrLengthMismatch, table.N(), g.N())
	}
	device, err := pickDevice()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fft.ErrUnavailable, err)
	}

	s := &Solver{
		n:          g.N(),
		stages:     table.Stages(),
		scale:      float32(scale),
		deviceName: device.Name(),
	}
	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{kernelSource}); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		s.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.hstepKernel, err = s.program.CreateKernel("hstep_ifft"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating horizontal kernel: %w", err)
	}
	if s.vstepKernel, err = s.program.CreateKernel("vstep_ifft"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating vertical kernel: %w", err)
	}
	if s.permuteKernel, err = s.program.CreateKernel("permute"); err != nil {
		s.Close()
		return nil, fmt.Errorf("creating permute kernel: %w", err)
	}

	flat := table.Float32()
	float32Size := int(unsafe.Sizeof(float32(0)))
	if s.butterflyBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, len(flat)*float32Size); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating butterfly buffer: %w", err)
	}
	fieldBytes := 2 * g.Len() * float32Size
	if s.pingBuf, err = s.context.CreateEmptyBuffer(cl.MemReadWrite, fieldBytes); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating ping buffer: %w", err)
	}
	if s.pongBuf, err = s.context.CreateEmptyBuffer(cl.MemReadWrite, fieldBytes); err != nil {
		s.Close()
		return nil, fmt.Errorf("allocating pong buffer: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.butterflyBuf, true, 0, flat, nil); err != nil {
		s.Close()
		return nil, fmt.Errorf("writing butterfly buffer: %w", err)
	}
	return s, nil
}

// Inverse2D implements fft.Transformer. Stages are enqueued on an in-order
// queue, so each one starts only after the previous finished.
func (s *Solver) Inverse2D(dst, src []complex128) error {
	size := s.n * s.n
	if len(src) != size || len(dst) != size {
		return fmt.Errorf("%w: src %d dst %d, want %d", fft.ErrLengthMismatch, len(src), len(dst), size)
	}
	s.host = interleave(s.host, src)
	if _, err := s.queue.EnqueueWriteBufferFloat32(s.pingBuf, false, 0, s.host, nil); err != nil {
		return fmt.Errorf("writing spectrum: %w", err)
	}

	global := []int{size}
	in, out := s.pingBuf, s.pongBuf
	for pass := 0; pass < 2*s.stages; pass++ {
		kernel := s.hstepKernel
		if pass >= s.stages {
			kernel = s.vstepKernel
		}
		if err := kernel.SetArgs(int32(s.n), int32(pass%s.stages), s.butterflyBuf, in, out); err != nil {
			return fmt.Errorf("setting stage %d arguments: %w", pass, err)
		}
		if _, err := s.queue.EnqueueNDRangeKernel(kernel, nil, global, nil, nil); err != nil {
			return fmt.Errorf("enqueueing stage %d: %w", pass, err)
		}
		in, out = out, in
	}
	if err := s.permuteKernel.SetArgs(int32(s.n), s.scale, in, out); err != nil {
		return fmt.Errorf("setting permute arguments: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.permuteKernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueueing permute: %w", err)
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(out, true, 0, s.host, nil); err != nil {
		return fmt.Errorf("reading field: %w", err)
	}
	deinterleave(dst, s.host)
	return nil
}

// DeviceName reports the selected device.
func (s *Solver) DeviceName() string { return s.deviceName }

// Close releases every device object. It is safe on a partially built solver.
func (s *Solver) Close() {
	for _, m := range []**cl.MemObject{&s.pongBuf, &s.pingBuf, &s.butterflyBuf} {
		if *m != nil {
			(*m).Release()
			*m = nil
		}
	}
	for _, k := range []**cl.Kernel{&s.permuteKernel, &s.vstepKernel, &s.hstepKernel} {
		if *k != nil {
			(*k).Release()
			*k = nil
		}
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}
