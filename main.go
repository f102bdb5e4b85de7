package main

import "swipe-match-backend/cmd"

func main() {
	cmd.Run()
}
