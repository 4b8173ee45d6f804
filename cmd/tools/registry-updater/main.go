// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"supplement-workers/pkg/registry"
)

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		err = runAdd(os.Args[2:])
	case "update":
		err = runUpdate(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	default:
		help()
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	path := fs.String("path", registry.DefaultPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID (e.g., rank-protocols)")
	displayName := fs.String("displayName", "", "Display name")
	description := fs.String("description", "", "Description")
	category := fs.String("category", "", "Category (e.g., recommendation)")
	taskType := fs.String("taskType", "", "Zeebe task type")
	version := fs.String("version", "1.0.0", "Version")
	status := fs.String("status", "planned", "Implementation status (planned, in-progress, completed, verified)")
	timeout := fs.String("timeout", "10s", "Job timeout")
	_ = fs.Parse(args)

	if *id == "" || *displayName == "" || *category == "" || *taskType == "" {
		fs.Usage()
		return fmt.Errorf("id, displayName, category and taskType are required")
	}

	reg, err := load(*path, true)
	if err != nil {
		return err
	}
	err = reg.Add(registry.Activity{
		ID:                   *id,
		DisplayName:          *displayName,
		Description:          *description,
		Category:             *category,
		Version:              *version,
		TaskType:             *taskType,
		ImplementationStatus: *status,
		InputSchema:          map[string]interface{}{"type": "object"},
		OutputSchema:         map[string]interface{}{"type": "object"},
		ErrorCodes:           []string{"PARSE_ERROR"},
		Timeout:              *timeout,
		Workflows:            []string{},
		Tags:                 []string{},
	})
	if err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Added activity: %s\n", *id)
	return nil
}

func runUpdate(args []string) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	path := fs.String("path", registry.DefaultPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (status, version, displayName, description, category, timeout, retries)")
	value := fs.String("value", "", "New value for the field")
	_ = fs.Parse(args)

	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field and value are required")
	}

	reg, err := load(*path, false)
	if err != nil {
		return err
	}
	if err := reg.Update(*id, *field, *value); err != nil {
		return err
	}
	if err := reg.Save(*path); err != nil {
		return err
	}
	fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", registry.DefaultPath, "Path to registry file")
	_ = fs.Parse(args)

	reg, err := load(*path, false)
	if err != nil {
		return err
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	path := fs.String("path", registry.DefaultPath, "Path to registry file")
	_ = fs.Parse(args)

	reg, err := load(*path, false)
	if err != nil {
		return err
	}
	acts := append([]registry.Activity(nil), reg.Activities...)
	sort.Slice(acts, func(i, j int) bool { return acts[i].Category+acts[i].ID < acts[j].Category+acts[j].ID })
	for _, a := range acts {
		fmt.Printf("%-16s %-34s %-12s %s\n", a.Category, a.TaskType, a.ImplementationStatus, a.Timeout)
	}
	return nil
}

func load(path string, allowMissing bool) (*registry.ActivityRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			reg = &registry.ActivityRegistry{Version: "1.0.0", Activities: []registry.Activity{}}
			reg.Touch()
			return reg, nil
		}
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return reg, nil
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file
  list      List activities by category
  help      Show this help message

Examples:
  registry-updater add -id check-interactions -displayName "Check Interactions" -category recommendation -taskType check-interactions
  registry-updater update -id rank-protocols -field status -value verified
  registry-updater validate -path pkg/registry/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.`)
}
