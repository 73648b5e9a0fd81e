// Package spectrum builds the initial wave spectrum h0(k) of a cascade from a
// seeded Gaussian field and a JONSWAP/TMA density with Donelan-Banner
// directional spreading, then packs it with its mirrored conjugate.
package spectrum

import (
	"math"

	"OSR/internal/params"
)

// depthClamp bounds k·depth before tanh/cosh.
const depthClamp = 20.0

// Model carries the physical constants the density depends on.
type Model struct {
	Gravity    float64
	Depth      float64
	WindSpeed  float64
	WindOffset float64
	Fetch      float64
	Swell      float64
	Beta       float64
	Gamma      float64

	Renormalize     bool
	IntegrationStep float64
}

// NewModel extracts the spectrum-relevant settings.
func NewModel(s params.Settings) Model {
	return Model{
		Gravity:         s.Gravity,
		Depth:           s.Depth,
		WindSpeed:       s.WindSpeed,
		WindOffset:      s.WindOffset,
		Fetch:           s.Fetch,
		Swell:           s.Swell,
		Beta:            s.Beta,
		Gamma:           s.Gamma,
		Renormalize:     s.Renormalize,
		IntegrationStep: s.IntegrationStep,
	}
}

// Dispersion returns ω(k) for finite-depth gravity waves.
func (m Model) Dispersion(k float64) float64 {
	return math.Sqrt(m.Gravity * k * math.Tanh(math.Min(k*m.Depth, depthClamp)))
}

// DispersionDerivative returns dω/dk of Dispersion.
func (m Model) DispersionDerivative(k float64) float64 {
	x := math.Min(k*m.Depth, depthClamp)
	th := math.Tanh(x)
	sech := 1 / math.Cosh(x)
	omega := math.Sqrt(m.Gravity * k * th)
	if omega == 0 {
		return 0
	}
	return m.Gravity * (th + x*sech*sech) / (2 * omega)
}

// PeakFrequency returns ω_peak for the configured wind speed and fetch.
func (m Model) PeakFrequency() float64 {
	return 22 * math.Cbrt(m.Gravity*m.Gravity/(m.WindSpeed*m.Fetch))
}

// JONSWAP is the fetch-limited spectral density at ω.
func (m Model) JONSWAP(omega, omegaP float64) float64 {
	sigma := 0.09
	if omega <= omegaP {
		sigma = 0.07
	}
	alpha := 0.076 * math.Pow(m.WindSpeed*m.WindSpeed/(m.Fetch*m.Gravity), 0.22)
	d := omega - omegaP
	r := math.Exp(-d * d / (2 * sigma * sigma * omegaP * omegaP))
	o2 := omega * omega
	ratio := omegaP / omega
	ratio *= ratio
	return alpha * m.Gravity * m.Gravity / (o2 * o2 * omega) *
		math.Exp(-m.Beta*ratio*ratio) * math.Pow(m.Gamma, r)
}

// DepthAttenuation is the TMA shallow-water factor.
func (m Model) DepthAttenuation(omega float64) float64 {
	oh := omega * math.Sqrt(m.Depth/m.Gravity)
	switch {
	case oh <= 1:
		return 0.5 * oh * oh
	case oh < 2:
		d := 2 - oh
		return 1 - 0.5*d*d
	default:
		return 1
	}
}

// DonelanBanner is the directional spreading for angle theta relative to the
// wind, with the shape chosen by ω/ω_peak.
func DonelanBanner(omega, omegaP, theta float64) float64 {
	r := omega / omegaP
	var beta float64
	switch {
	case r < 0.95:
		beta = 2.61 * math.Pow(r, 1.3)
	case r <= 1.6:
		beta = 2.28 * math.Pow(r, -1.3)
	default:
		beta = math.Pow(10, -0.4+0.8393*math.Exp(-0.567*math.Log(r*r)))
	}
	sech := 1 / math.Cosh(beta*theta)
	return beta / (2 * math.Tanh(beta*math.Pi)) * sech * sech
}

// swellExponent returns s in cos^(2s)(θ/2).
func (m Model) swellExponent(omega, omegaP float64) float64 {
	return 16 * math.Tanh(omegaP/omega) * m.Swell * m.Swell
}

// swellNormalization is a polynomial fit of 1/∫cos^(2s)(θ/2)dθ.
func swellNormalization(s float64) float64 {
	s2 := s * s
	if s < 5 {
		return -0.000564*s2*s2 + 0.00776*s2*s + -0.044*s2 + 0.192*s + 0.163
	}
	return -4.80e-08*s2*s2 + 1.07e-05*s2*s + -9.53e-04*s2 + 5.90e-02*s + 3.93e-01
}

// SwellSpreading narrows the spreading for long, wind-independent waves.
func (m Model) SwellSpreading(omega, omegaP, theta float64) float64 {
	s := m.swellExponent(omega, omegaP)
	return swellNormalization(s) * math.Pow(math.Abs(math.Cos(theta/2)), 2*s)
}

// Spreading combines Donelan-Banner and the swell term, optionally rescaled
// so its integral over θ∈[-π, π] is one.
func (m Model) Spreading(omega, omegaP, theta float64) float64 {
	return m.spreading(omega, omegaP, theta, m.SpreadingArea)
}

func (m Model) spreading(omega, omegaP, theta float64, area func(omega, omegaP float64) float64) float64 {
	d := DonelanBanner(omega, omegaP, theta) * m.SwellSpreading(omega, omegaP, theta)
	if !m.Renormalize {
		return d
	}
	a := area(omega, omegaP)
	if a <= 0 {
		return d
	}
	return d / a
}

// SpreadingArea integrates the unnormalized spreading over θ∈[-π, π] with
// the trapezoid rule. It depends on ω only through ω/ω_p.
func (m Model) SpreadingArea(omega, omegaP float64) float64 {
	step := m.IntegrationStep
	steps := int(math.Ceil(2 * math.Pi / step))
	h := 2 * math.Pi / float64(steps)
	f := func(theta float64) float64 {
		return DonelanBanner(omega, omegaP, theta) * m.SwellSpreading(omega, omegaP, theta)
	}
	sum := 0.5 * (f(-math.Pi) + f(math.Pi))
	for i := 1; i < steps; i++ {
		sum += f(-math.Pi + float64(i)*h)
	}
	return sum * h
}

// WrapAngle maps theta into [-π, π].
func WrapAngle(theta float64) float64 {
	return math.Remainder(theta, 2*math.Pi)
}
