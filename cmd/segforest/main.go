// Command segforest trains and runs a randomized decision forest
// segmentation pipeline. See `segforest training -h` and
// `segforest inferenz -h`.
package main

func main() {
	Execute()
}
