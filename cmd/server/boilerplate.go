package main

import (
	"fmt"
	"strings"

	"github.com/Vivek290100/CodeMaster/internal/boilerplate"
	"github.com/Vivek290100/CodeMaster/internal/coerce"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/spf13/cobra"
)

var boilerplateArgs struct {
	language string
	vars     []string
	output   string
}

var boilerplateCmd = &cobra.Command{
	Use:   "boilerplate",
	Short: "Print the starter program for a function signature",
	Example: `  codemaster boilerplate --lang python --var nums:integer[] --var target:integer --out integer[]
  codemaster boilerplate --lang cpp --var grid:string[] --out boolean`,
	RunE: func(cmd *cobra.Command, args []string) error {
		vars := make([]model.InputVariable, 0, len(boilerplateArgs.vars))
		for _, raw := range boilerplateArgs.vars {
			v, err := parseVariable(raw)
			if err != nil {
				return err
			}
			vars = append(vars, v)
		}
		out, err := coerce.ParseType(boilerplateArgs.output)
		if err != nil {
			return fmt.Errorf("--out: %w", err)
		}

		code, err := boilerplate.Generate(model.Language(boilerplateArgs.language), vars, out)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), code)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boilerplateCmd)
	boilerplateCmd.Flags().StringVar(&boilerplateArgs.language, "lang", string(model.LanguagePython), "javascript, python or cpp")
	boilerplateCmd.Flags().StringArrayVar(&boilerplateArgs.vars, "var", nil, "input variable as name:type, repeatable, in argument order")
	boilerplateCmd.Flags().StringVar(&boilerplateArgs.output, "out", "integer", "output type")
	boilerplateCmd.MarkFlagRequired("var")
}

// parseVariable reads "name:type" where type is a base type optionally
// followed by one "[]".
func parseVariable(raw string) (model.InputVariable, error) {
	name, typ, ok := strings.Cut(raw, ":")
	if !ok || name == "" {
		return model.InputVariable{}, fmt.Errorf("--var %q: want name:type", raw)
	}
	if boilerplate.Reserved(name) {
		return model.InputVariable{}, fmt.Errorf("--var %q: %s is a reserved name", raw, name)
	}
	t, err := coerce.ParseType(typ)
	if err != nil {
		return model.InputVariable{}, fmt.Errorf("--var %q: %w", raw, err)
	}
	if t.Depth > 1 {
		return model.InputVariable{}, fmt.Errorf("--var %q: input variables are scalars or one-level arrays", raw)
	}
	return model.InputVariable{Name: name, Type: t.Base, IsArray: t.IsArray()}, nil
}
