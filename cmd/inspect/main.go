package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/feltforge/modelabi/codec"
	"github.com/feltforge/modelabi/introspect"
	"github.com/feltforge/modelabi/layout"
	"github.com/feltforge/modelabi/registry"
	"github.com/feltforge/modelabi/storage"
)

func main() {
	var (
		dbFile      = flag.String("db", "", "Path to a model definitions database")
		schemaFile  = flag.String("schema", "", "Path to a schema JSON file")
		modelName   = flag.String("model", "", "Model to show (optional)")
		asJSON      = flag.Bool("json", false, "Dump the model schema as JSON")
		list        = flag.Bool("list", false, "List registered models and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *dbFile == "" && *schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect -db <models.db> [-model name] [-json]")
		fmt.Fprintln(os.Stderr, "       inspect -db <models.db> -list")
		fmt.Fprintln(os.Stderr, "       inspect -db <models.db> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       inspect -schema <schema.json>")
		os.Exit(1)
	}

	if *schemaFile != "" {
		if err := runSchemaFile(*schemaFile, *asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// the TUI needs a terminal; fall back to plain output otherwise
	if *interactive && term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runInteractive(*dbFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*dbFile, *modelName, *asJSON, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadRegistry(dbFile string) (*registry.Registry, error) {
	db, err := storage.OpenSQLite(dbFile)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	reg := registry.New(storage.NewMemory())
	if err := reg.Load(db); err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	return reg, nil
}

// runSchemaFile inspects a standalone schema JSON file.
func runSchemaFile(path string, asJSON bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var schema introspect.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return fmt.Errorf("parse schema: %w", err)
	}

	if asJSON {
		out, err := json.MarshalIndent(&schema, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	t, err := schema.Type()
	if err != nil {
		return fmt.Errorf("rebuild descriptor: %w", err)
	}
	lay := layout.Derive(t)

	fmt.Printf("Schema: %s\n", schema.TypeName())
	printLayoutInfo(lay)
	fmt.Printf("\n%s\n", &schema)
	return nil
}

func printLayoutInfo(lay *layout.Layout) {
	if n, ok := lay.SizeHint(); ok {
		fmt.Printf("Slots: %d (static)\n", n)
	} else {
		fmt.Printf("Slots: dynamic\n")
	}
	if widths, ok := lay.PackedWidths(); ok {
		fmt.Printf("Packed words: %d\n", codec.PackedSize(widths))
	}
}

func run(dbFile, modelName string, asJSON, listOnly bool) error {
	reg, err := loadRegistry(dbFile)
	if err != nil {
		return err
	}

	names := reg.List()
	if listOnly || modelName == "" {
		fmt.Printf("Models: %d\n\n", len(names))
		for _, name := range names {
			def, err := reg.Get(name)
			if err != nil {
				return err
			}
			fmt.Printf("  %s %s\n", name, def.Version)
		}
		if modelName == "" && !listOnly && len(names) > 0 {
			fmt.Println("\nUse -model to show a model's schema.")
		}
		return nil
	}

	def, err := reg.Get(modelName)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.MarshalIndent(def.Schema, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal schema: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Model: %s %s\n", def.Name, def.Version)
	fmt.Printf("Keys: %d  Values: %d\n", len(def.Schema.Keys()), len(def.Schema.Values()))
	if n, ok := def.ValueLayout.SizeHint(); ok {
		fmt.Printf("Value slots: %d (static)\n", n)
	} else {
		fmt.Printf("Value slots: dynamic\n")
	}
	if def.PackedSize > 0 {
		fmt.Printf("Packed words: %d\n", def.PackedSize)
	}
	fmt.Printf("\n%s\n", def.Schema)
	return nil
}
