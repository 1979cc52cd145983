//go:build static

package config

// the statically linked runner is installed into the judge root and
// confines the child there
const defaultChroot = "/target"
