// Package spirv compiles GLSL and HLSL shader sources and links them, together
// with precompiled binaries, into a single SPIR-V module.
//
// The package does not compile or link anything itself. It drives the Vulkan
// SDK tools (glslangValidator and spirv-link by default), which must be
// reachable through PATH or configured explicitly on a Toolchain.
//
// A Build call is synchronous: every source is compiled in order, the
// results are linked, and the linked bytes are returned. Intermediate files
// live under the temporary directory and are removed before Build returns,
// whether it succeeds or fails. Independent Build calls may run concurrently.
package spirv
