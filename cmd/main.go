/*
 *  main.go
 *  cmd
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package main

import (
	"log"

	"github.com/op/go-logging"
	"github.com/tanghaibao/lociplot"
)

// main is the entrypoint for the entire program, routes to commands
func main() {
	logging.SetBackend(lociplot.BackendFormatter)
	err := lociplot.Execute()
	if err != nil {
		log.Fatal(err)
	}
}
