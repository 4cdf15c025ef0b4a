// Package mapping loads and compiles mapping configurations.
//
// A mapping configuration tells the event mapper, for every source var and
// op, which target names to emit and how to build the target arguments.
//
// # Format
//
// JSON (.json) or YAML (.yaml, .yml). Member order is preserved in both.
//
//	{
//	  "x": {
//	    "name": "X",
//	    "functions": {
//	      "set": {
//	        "name": "Set",
//	        "map_args": {"value": "@{{args.v}}"},
//	        "input_schema": {"type": "object", "required": ["v"]},
//	        "output_schema": {"$ref": "tla-definitions.schema.json#/$defs/record"}
//	      }
//	    }
//	  }
//	}
//
// The same document in YAML:
//
//	x:
//	  name: X
//	  functions:
//	    set:
//	      name: Set
//	      map_args:
//	        value: "@{{args.v}}"
//
// map_args is a template (see package template). input_schema and
// output_schema are optional JSON Schemas; references to shared definitions
// are resolved through a schema.Registry.
//
// # Diagnostics
//
// Loading does not stop at the first problem. Every malformed entry is
// reported as a diagnostic; unknown keys are warnings with suggestions.
package mapping
