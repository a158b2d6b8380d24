package main

import "github.com/mesteruh/sentry-mattermost/cmd"

func main() {
	cmd.Execute()
}
