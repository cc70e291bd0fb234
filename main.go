package main

import "resqhome-backend/cmd"

func main() {
	cmd.Run()
}
