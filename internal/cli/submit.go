package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parisxmas/materai/internal/auth"
	"github.com/parisxmas/materai/internal/fileenc"
	"github.com/parisxmas/materai/internal/models"
)

type submitOutput struct {
	Message  string           `json:"message"`
	Document *models.Document `json:"document"`
}

func newSubmitCmd() *cobra.Command {
	var (
		user        string
		branch      string
		sessionFile string
		location    string
		scope       string
		filePath    string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one document through the form workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			if branch == "" && sessionFile != "" {
				raw, err := os.ReadFile(sessionFile)
				if err != nil {
					return fmt.Errorf("read session file: %w", err)
				}
				branch = auth.ReadSessionBranch(string(raw))
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			f, err := os.Open(filePath)
			if err != nil {
				return err
			}
			defer f.Close()
			att, err := fileenc.Read(filePath, "", f, a.cfg.MaxUploadSize)
			if err != nil {
				return err
			}

			sess := models.Session{UserID: user, Branch: branch}
			view, err := a.forms().SubmitOnce(cmd.Context(), sess, location, scope, att)
			if err != nil {
				if view.Error != "" {
					return errors.New(view.Error)
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), submitOutput{Message: view.Message, Document: view.Result})
		},
	}

	cmd.Flags().StringVar(&user, "user", "cli", "User recorded as the author")
	cmd.Flags().StringVar(&branch, "branch", "", "Branch (cabang) of the session")
	cmd.Flags().StringVar(&sessionFile, "session-file", "", "Read the branch from a saved "+auth.SessionKey+" JSON blob")
	cmd.Flags().StringVar(&location, "location", "", "Location code (ulok) (required)")
	cmd.Flags().StringVar(&scope, "scope", "", "Work scope (lingkup) (required)")
	cmd.Flags().StringVar(&filePath, "file", "", "PDF or image to attach (required)")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("scope")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
