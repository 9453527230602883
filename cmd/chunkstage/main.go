// Command chunkstage splits a compiled Move package into staged publishing
// transactions for the large_packages contract.
package main

func main() {
	Execute()
}
