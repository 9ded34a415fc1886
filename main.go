package main

import "catalog-admin/cmd"

func main() {
	cmd.Execute()
}
