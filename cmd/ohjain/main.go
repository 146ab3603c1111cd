// ohjain - EC2 instance lifecycle manager.
// One request in, one action out.
package main

import (
	// Register the AWS backend.
	_ "github.com/ohjain/ohjain/providers/aws"
)

func main() {
	Execute()
}
