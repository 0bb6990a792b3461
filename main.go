/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/mikesmitty/psychro-chart/cmd"

func main() {
	cmd.Execute()
}
