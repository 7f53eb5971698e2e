package cfront

import "os"

// CompileBytes takes C source text and a configuration object and
// returns the IR Module produced by parsing it and running the code
// generator over the result, mirroring the teacher's
// GrammarFromBytes: a single call gluing the stages together for
// callers that don't need to touch the Parser/CodeGenerator directly.
func CompileBytes(src []byte, cfg *Config, target TargetInfo) (*Module, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if target == nil {
		target = DefaultTargetInfo()
	}
	scanner := NewScanner(string(src), cfg)
	parser := NewParser(scanner, cfg, target)
	tu, err := parser.ParseTranslationUnit()
	if err != nil {
		return nil, err
	}
	return NewCodeGenerator(target).Generate(tu, "module")
}

// CompileFile reads path and compiles it the same way CompileBytes
// does, mirroring the teacher's GrammarFromFile.
func CompileFile(path string, cfg *Config, target TargetInfo) (*Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return CompileBytes(src, cfg, target)
}
