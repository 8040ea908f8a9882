// cmd/main.go
package main

import (
	"planner-api/app"
)

func main() {
	app.Run()
}
