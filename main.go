package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gookit/color"
	"go.uber.org/zap"

	"github.com/ammdias/tvault/toolbox"
)

func main() {
	command := parseCli()

	if flagNoColor {
		color.Disable()
	}

	log := zap.NewNop()
	if flagDebug {
		dev, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to set up debug logging: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = dev.Sync() }()
		log = dev
	}

	u := &uiContext{
		tools: toolbox.Resolve(toolbox.GPG, toolbox.Oathtool,
			toolbox.Zenity, toolbox.Xclip, toolbox.Xsel),
		log:    log,
		path:   flagFile,
		noClip: flagNoClip,
	}

	if err := u.run(context.Background(), command); err != nil {
		errColor.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
