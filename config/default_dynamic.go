//go:build !static

package config

const defaultChroot = ""
