// Command umlweb edits UML use case projects and moves them in and out of
// the umlweb XML format.
package main

func main() {
	Execute()
}
