// Package config resolves per-widget configuration and discovers how the
// hosting script was embedded in a page.
//
// Resolution precedence per field: the container's declarative data-*
// attribute, else the caller-supplied override, else the process-wide
// default. Declarative attributes deliberately win over programmatic
// overrides so markup can lock down behavior a script cannot silently
// change. Execute-time merges invert this: there the caller refines runtime
// parameters and overrides win.
//
// Only sitekey and size are hard validation gates. Theme, execution, and
// appearance pass through unvalidated and the remote content decides what to
// do with unknown values.
package config
