package clfft

// kernelSource holds the butterfly and permute kernels. Both butterfly
// kernels negate the stored imaginary part, applying conj(W) like the CPU
// plan.
const kernelSource = `__kernel void hstep_ifft(
    const int n,
    const int stage,
    __global const float4* butterfly,
    __global const float2* src,
    __global float2* dst)
{
    int idx = get_global_id(0);
    if (idx >= n * n) {
        return;
    }
    int x = idx % n;
    int z = idx / n;
    float4 b = butterfly[stage * n + x];
    float2 top = src[z * n + (int)b.z];
    float2 bot = src[z * n + (int)b.w];
    float wr = b.x;
    float wi = -b.y;
    dst[idx] = (float2)(top.x + wr * bot.x - wi * bot.y, top.y + wr * bot.y + wi * bot.x);
}

__kernel void vstep_ifft(
    const int n,
    const int stage,
    __global const float4* butterfly,
    __global const float2* src,
    __global float2* dst)
{
    int idx = get_global_id(0);
    if (idx >= n * n) {
        return;
    }
    int x = idx % n;
    int z = idx / n;
    float4 b = butterfly[stage * n + z];
    float2 top = src[(int)b.z * n + x];
    float2 bot = src[(int)b.w * n + x];
    float wr = b.x;
    float wi = -b.y;
    dst[idx] = (float2)(top.x + wr * bot.x - wi * bot.y, top.y + wr * bot.y + wi * bot.x);
}

__kernel void permute(
    const int n,
    const float scale,
    __global const float2* src,
    __global float2* dst)
{
    int idx = get_global_id(0);
    if (idx >= n * n) {
        return;
    }
    int x = idx % n;
    int z = idx / n;
    float sign = ((x + z) & 1) ? -1.0f : 1.0f;
    dst[idx] = src[idx] * (sign * scale);
}`
