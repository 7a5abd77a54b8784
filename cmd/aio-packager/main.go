package main

import "github.com/oshokin/aio-packager/cmd/aio-packager/cmd"

func main() {
	cmd.Execute()
}
