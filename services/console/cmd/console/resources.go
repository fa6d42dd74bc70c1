package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/hooks"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/query"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

type resourceDef[T, C, U any] struct {
	name       string
	singular   string
	columns    []view.Column[T]
	collection func(*hooks.Hooks) hooks.Collection[T, C, U]
	extra      []func(*app) *cobra.Command
}

func newResourceCmd[T, C, U any](a *app, def resourceDef[T, C, U]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.name,
		Short: "List, show, create, update and delete " + def.name,
	}

	var page schema.Page
	var refresh bool
	printList := func(ctx context.Context, page schema.Page, refresh bool) error {
		q := def.collection(a.hooks).List(page)
		var res query.Result[[]T]
		if refresh {
			res = q.Refetch(ctx)
		} else {
			res = q.Fetch(ctx)
		}
		return show(a, res, func(rows []T) error {
			return view.List(a.out, def.name, def.columns, rows)
		})
	}
	a.listers[def.name] = func(ctx context.Context, refresh bool) error {
		return printList(ctx, schema.Page{}, refresh)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + def.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printList(cmd.Context(), page, refresh)
		},
	}
	list.Flags().IntVar(&page.Limit, "limit", 0, "page size (1-100, default: backend default)")
	list.Flags().IntVar(&page.Offset, "offset", 0, "number of records to skip")
	list.Flags().BoolVar(&refresh, "refresh", false, "ignore cached data")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + def.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := def.collection(a.hooks).Get(args[0]).Fetch(cmd.Context())
			return show(a, res, func(item T) error {
				return view.Record(a.out, def.columns, item)
			})
		},
	}

	var createIn bodyFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a " + def.singular + " from JSON fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := readBody[C](cmd.InOrStdin(), createIn)
			if err != nil {
				return err
			}
			out, err := def.collection(a.hooks).Create().Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			return view.Record(a.out, def.columns, out)
		},
	}
	createIn.bind(create)

	var updateIn bodyFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change some fields of a " + def.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := readBody[U](cmd.InOrStdin(), updateIn)
			if err != nil {
				return err
			}
			out, err := def.collection(a.hooks).Update().Run(cmd.Context(), hooks.Patch[U]{ID: args[0], Fields: fields})
			if err != nil {
				return err
			}
			return view.Record(a.out, def.columns, out)
		},
	}
	updateIn.bind(update)

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + def.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := def.collection(a.hooks).Delete().Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			msg := out.Message
			if msg == "" {
				msg = fmt.Sprintf("%s %s deleted.", def.singular, args[0])
			}
			return a.out.Message(msg)
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	for _, extra := range def.extra {
		cmd.AddCommand(extra(a))
	}
	return cmd
}

type bodyFlags struct {
	data string
	file string
}

func (b *bodyFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.data, "data", "", `fields as a JSON object, e.g. '{"name":"Savings"}'`)
	cmd.Flags().StringVarP(&b.file, "file", "f", "", "read the JSON object from a file (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("data", "file")
}

// readBody decodes the form fields given on the command line. Unknown fields
// are rejected so that a typo does not silently send an empty update.
func readBody[V any](stdin io.Reader, b bodyFlags) (V, error) {
	var v V
	var r io.Reader
	switch {
	case strings.TrimSpace(b.data) != "":
		r = strings.NewReader(b.data)
	case b.file == "-":
		r = stdin
	case b.file != "":
		f, err := os.Open(b.file)
		if err != nil {
			return v, err
		}
		defer f.Close()
		r = f
	default:
		return v, errors.New("provide the fields with --data or --file")
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("read fields: %w", err)
	}
	return v, nil
}
