// Package cli implements recipectl, the command-line client of the recipe API.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/pageza/recipebox/backend/client"
)

const (
	name          = "recipectl"
	defaultAPIURL = "http://localhost:8080"
)

// overridden during build with ldflags
var version = "dev"

func apiURLFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "api-url",
		Value:   defaultAPIURL,
		Usage:   "Base URL of the recipe API",
		Sources: cli.EnvVars("RECIPES_API_URL"),
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"o"},
		Value:   "table",
		Usage:   "Output format (table, json)",
	}
}

func titleFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "title",
		Aliases:  []string{"t"},
		Usage:    "Recipe title",
		Required: true,
	}
}

func ingredientFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:     "ingredient",
		Aliases:  []string{"i"},
		Usage:    "Ingredient, repeat for each entry in order",
		Required: true,
	}
}

// NewCommand builds the recipectl root command writing results to w.
// Slice flags are not split on commas since ingredients may contain them.
func NewCommand(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:                      name,
		Usage:                     "Manage recipes through the recipe API",
		Version:                   version,
		EnableShellCompletion:     true,
		DisableSliceFlagSeparator: true,
		Writer:                    w,
		Flags:                     []cli.Flag{apiURLFlag(), formatFlag()},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all recipes",
				Action: listAction,
			},
			{
				Name:      "get",
				Usage:     "Show one recipe",
				ArgsUsage: "<id>",
				Action:    getAction,
			},
			{
				Name:   "create",
				Usage:  "Create a recipe",
				Flags:  []cli.Flag{titleFlag(), ingredientFlag()},
				Action: createAction,
			},
			{
				Name:      "update",
				Usage:     "Replace title and ingredients of a recipe",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{titleFlag(), ingredientFlag()},
				Action:    updateAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a recipe",
				ArgsUsage: "<id>",
				Action:    deleteAction,
			},
		},
	}
}

func newClient(cmd *cli.Command) *client.Client {
	return client.New(cmd.String("api-url"))
}

func idArg(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", errors.New("recipe id is required")
	}
	return id, nil
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	recipes, err := newClient(cmd).List(ctx)
	if err != nil {
		return err
	}
	return render(cmd, recipes)
}

func getAction(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}
	recipe, err := newClient(cmd).Get(ctx, id)
	if err != nil {
		return err
	}
	return render(cmd, []client.Recipe{*recipe})
}

func createAction(ctx context.Context, cmd *cli.Command) error {
	recipe, err := newClient(cmd).Create(ctx, cmd.String("title"), cmd.StringSlice("ingredient"))
	if err != nil {
		return err
	}
	return render(cmd, []client.Recipe{*recipe})
}

func updateAction(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}
	recipe, err := newClient(cmd).Update(ctx, id, cmd.String("title"), cmd.StringSlice("ingredient"))
	if err != nil {
		return err
	}
	return render(cmd, []client.Recipe{*recipe})
}

func deleteAction(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}
	if err := newClient(cmd).Delete(ctx, id); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "deleted %s\n", id)
	return err
}

func render(cmd *cli.Command, recipes []client.Recipe) error {
	w := cmd.Root().Writer

	switch format := cmd.String("format"); format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(recipes) == 1 && cmd.Name != "list" {
			return enc.Encode(recipes[0])
		}
		return enc.Encode(recipes)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tINGREDIENTS")
		for _, r := range recipes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Title, strings.Join(r.Ingredients, ", "))
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
}
