// Command kllc is a minimal example driver for the kllc module,
// exercising compile.Compile, emit.JSON, and emit.KLL end to end. It
// is not "the CLI" the language contracts, only a runnable entry point
// for the library.
package main

func main() {
	Execute()
}
