package main

import "github.com/nguyentranbao-ct/price-tracker/cmd"

func main() {
	cmd.Execute()
}
