// The cachesim command runs cache hierarchy simulations from the command
// line and serves the HTTP API that the visualization front end talks to.
package main

func main() {
	Execute()
}
