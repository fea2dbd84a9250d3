package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes the top-level blocks of a manifest file.
type fileRoot struct {
	Toolchain *ToolchainBlock `hcl:"toolchain,block"`
	Modules   []*ModuleBlock  `hcl:"module,block"`
}

// ToolchainBlock is the optional `toolchain` block.
type ToolchainBlock struct {
	TargetEnv string `hcl:"target_env,optional"`
	Compiler  string `hcl:"compiler,optional"`
	Linker    string `hcl:"linker,optional"`
}

// ModuleBlock is a `module "<name>"` block. Its component blocks stay in
// Remain so they can be read back in source order.
type ModuleBlock struct {
	Name   string   `hcl:"name,label"`
	Output string   `hcl:"output"`
	Remain hcl.Body `hcl:",remain"`
}

// SourceBlock is the body of a `glsl "<path>"` or `hlsl "<path>"` block.
type SourceBlock struct {
	Stage      string `hcl:"stage,optional"`
	EntryPoint string `hcl:"entry_point"`
}

// BinaryBlock is the body of a `binary "<path>"` block. It has no
// attributes; decoding into it rejects any that are given.
type BinaryBlock struct{}

// componentSchema lists the block types allowed inside a module.
var componentSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "glsl", LabelNames: []string{"path"}},
		{Type: "hlsl", LabelNames: []string{"path"}},
		{Type: "binary", LabelNames: []string{"path"}},
	},
}
