//go:build !unix

package env

func hostKernel() string { return "" }
