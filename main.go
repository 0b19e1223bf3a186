package main

import (
	"github.com/civicworks/grievance-management/cmd"
)

func main() {
	cmd.Execute()
}
