/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/accordmanpower/cmsapi/cmd"

func main() {
	cmd.Execute()
}
