package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"go-gin-user-console/internal/domain"
	"go-gin-user-console/internal/feature/user"
	"go-gin-user-console/internal/style"
	"go-gin-user-console/pkg/utils"
)

func (a *app) listCmd() *cobra.Command {
	var search, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, optionally filtered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			l := user.NewList()
			if err := l.Load(cmd.Context(), a.api); err != nil {
				return err
			}
			l.SetFilter(search)
			return writeList(cmd.OutOrStdout(), output, l.Filtered(), l.Len())
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive substring of the name")
	cmd.Flags().StringVarP(&output, "output", "o", outTable, "Output format: table|json|yaml")
	return cmd
}

func (a *app) viewCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "view <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(output); err != nil {
				return err
			}
			id, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}
			v := user.NewView(id)
			if err := v.Load(cmd.Context(), a.api, notifier(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return writeRecord(cmd.OutOrStdout(), output, *v.Record())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outTable, "Output format: table|json|yaml")
	return cmd
}

type formFlags struct {
	sets        []string
	interactive bool
	output      string
}

func (ff *formFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&ff.sets, "set", nil, "Field value as path=value, repeatable (e.g. address.city=Paris)")
	cmd.Flags().BoolVarP(&ff.interactive, "interactive", "i", false, "Prompt for fields")
	cmd.Flags().StringVarP(&ff.output, "output", "o", outTable, "Output format: table|json|yaml")
}

func (a *app) createCmd() *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (username is derived from the name)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(ff.output); err != nil {
				return err
			}
			var saved domain.Record
			f := user.NewCreateForm(a.api, user.FormHooks{
				Notifier: notifier(cmd.ErrOrStderr()),
				Guard:    user.RejectMarkup(utils.HasMarkup),
				OnSaved:  func(r domain.Record) { saved = r },
			})
			if err := a.runForm(cmd, f, ff); err != nil {
				return err
			}
			cmd.PrintErrln(style.SuccessPrefix, "User created")
			return writeRecord(cmd.OutOrStdout(), ff.output, saved)
		},
	}
	ff.bind(cmd)
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var ff formFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a user; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(ff.output); err != nil {
				return err
			}
			id, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}
			n := notifier(cmd.ErrOrStderr())
			v := user.NewView(id)
			if err := v.Load(cmd.Context(), a.api, n); err != nil {
				return err
			}
			var saved domain.Record
			f := user.NewEditForm(*v.Record(), a.api, user.FormHooks{
				Notifier: n,
				Guard:    user.RejectMarkup(utils.HasMarkup),
				OnSaved:  func(r domain.Record) { saved = r },
			})
			if err := a.runForm(cmd, f, ff); err != nil {
				return err
			}
			cmd.PrintErrln(style.SuccessPrefix, "User updated")
			return writeRecord(cmd.OutOrStdout(), ff.output, saved)
		},
	}
	ff.bind(cmd)
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := domain.ParseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.Delete(cmd.Context(), id); err != nil {
				notifier(cmd.ErrOrStderr()).Notify(user.LevelError, "Error deleting user")
				return fmt.Errorf("delete user %s: %w", id, err)
			}
			cmd.PrintErrln(style.SuccessPrefix, "User deleted")
			return nil
		},
	}
}

// runForm --set 先写入；交互模式下逐项提示，校验失败只重新询问出错的字段
func (a *app) runForm(cmd *cobra.Command, f *user.Form, ff formFlags) error {
	for _, s := range ff.sets {
		path, value, err := parseSet(s)
		if err != nil {
			return err
		}
		if err := f.SetField(path, value); err != nil {
			return err
		}
	}

	ask := ff.interactive || (len(ff.sets) == 0 && a.opts.Prompter != nil && stdinIsTerminal())
	if ask {
		if err := a.prompt(cmd, f, user.Fields()); err != nil {
			return err
		}
	}
	for {
		err := f.Submit(cmd.Context())
		var ve *user.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		writeFieldErrors(cmd.ErrOrStderr(), ve.Fields)
		retry := failed(ve.Fields)
		if !ask || len(retry) == 0 {
			return err
		}
		if err := a.prompt(cmd, f, retry); err != nil {
			return err
		}
	}
}

func (a *app) prompt(cmd *cobra.Command, f *user.Form, fields []user.Field) error {
	if a.opts.Prompter == nil {
		return errors.New("interactive input is not available")
	}
	for _, fld := range fields {
		msg := fld.Label()
		if fld.Optional() {
			msg += " (optional)"
		}
		v, err := a.opts.Prompter.Input(cmd.Context(), msg+":", fld.Get(f.Draft()))
		if err != nil {
			return err
		}
		if err := f.Set(fld, v); err != nil {
			return err
		}
		if fld == user.FieldName && f.Mode() == user.ModeCreate {
			cmd.PrintErrln(style.Dim.Render("Username: " + f.Draft().Username))
		}
	}
	return nil
}

// failed 按表单顺序返回出错的字段
func failed(errs user.Errors) []user.Field {
	var out []user.Field
	for _, fld := range user.Fields() {
		if _, ok := errs[fld.ErrorKey()]; ok {
			out = append(out, fld)
		}
	}
	return out
}
