package main

import "github.com/slchen/vcpkg/cmd"

func main() {
	cmd.Execute()
}
