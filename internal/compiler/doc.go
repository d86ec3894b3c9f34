// Package compiler turns CUE class declarations into ir.ClassSpecs.
//
// Declarations live under a top-level "class" struct:
//
//	class: Widget: {
//		parent: "Responder"
//		properties: { label: "untitled" }
//		methods: { describe: "field:label" }
//		initializer: "super;set:label=0"
//	}
//
// CompileClass parses one declaration, Validate reports schema errors and
// ResolveHierarchy orders specs parents-first.
package compiler
