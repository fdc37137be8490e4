package main

import "github.com/segyhp/upn-qr/internal/cli"

func main() {
	cli.Execute()
}
