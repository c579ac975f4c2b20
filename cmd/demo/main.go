// Command demo prints plans for a few fixed rain schedules.
package main

import (
	"fmt"

	"github.com/couchcryptid/flood-planner/internal/domain"
)

var samples = [][]int{
	{1, 2, 3, 4},
	{1, 2, 1, 0, 2, 1},
	{1, 2, 0, 1, 2},
	{1, 0, 2, 0, 2},
}

func main() {
	for _, rains := range samples {
		fmt.Printf("Input: %v\n", rains)
		fmt.Printf("Output: %v\n", domain.AvoidFlood(rains))
		fmt.Println()
	}
}
