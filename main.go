package main

import "github.com/meinhoongagan/hospital-app/cmd"

func main() {
	cmd.Execute()
}
