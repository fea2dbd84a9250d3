// Package docconfig reads TOML and YAML build manifests. Both formats share
// one document shape:
//
//	[toolchain]
//	target_env = "vulkan1.3"
//
//	[[module]]
//	name   = "sprite"
//	output = "build/sprite.spv"
//
//	  [[module.component]]
//	  glsl        = "shaders/sprite.vert"
//	  entry_point = "vmain"
//
// Every component sets exactly one of glsl, hlsl or binary.
package docconfig
