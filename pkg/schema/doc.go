// Package schema holds the field schema registry: the mapping from form type
// name to an ordered list of field descriptors. Registries are built from
// configuration rather than code. LoadFS reads JSON or YAML form files from
// any fs.FS, Default serves the embedded built-in forms, and FromOpenAPI
// derives form types from the request bodies of an OpenAPI document.
package schema
