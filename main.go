package main

import "github.com/aleph-zero/tinysql/cmd"

func main() {
	cmd.Execute()
}
