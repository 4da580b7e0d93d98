/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import (
	"github.com/josephgoksu/taskpilot/cmd"
	"github.com/josephgoksu/taskpilot/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
