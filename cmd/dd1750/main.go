package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/packlab/dd1750/internal/config"
	"github.com/packlab/dd1750/internal/generate"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.SetFlags(0)
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
		log.Printf("Starting with configuration: %s", cfg)
	}

	if version != "dev" {
		cfg.Version = version
	}

	service, err := generate.NewService(cfg)
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	result, err := service.Generate(generate.GenerateRequest{
		BOMPath:      cfg.BOMPath,
		TemplatePath: cfg.TemplatePath,
		OutputPath:   cfg.OutputPath,
		StartPage:    cfg.StartPage,
		StockLabel:   cfg.StockLabel,
	})
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	fmt.Printf("Wrote %s\n", result.OutputPath)
	fmt.Printf("Items: %d, pages: %d\n", len(result.Items), result.PageCount)
	for i, item := range result.Items {
		line := fmt.Sprintf("%3d. %s", i+1, item.Description)
		if item.StockNumber != "" {
			line += fmt.Sprintf(" [%s: %s]", cfg.StockLabel, item.StockNumber)
		}
		line += fmt.Sprintf(" x%d", item.Quantity)
		fmt.Println(line)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("DD1750 Generator\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
