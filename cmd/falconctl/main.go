/*
Copyright © 2025 iIT Distribution
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"os"

	"github.com/iitd/falcon-deploy/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
