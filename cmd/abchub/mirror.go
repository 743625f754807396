package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"abchub/internal/validation"
)

func newMirrorCmd(a *app) *cobra.Command {
	mirrorCmd := &cobra.Command{
		Use:   "mirror",
		Short: "Inspect the remote mirror",
	}

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the remote mirror is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := a.remote.Ping(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), status.Message)
			if !status.Success {
				return fmt.Errorf("mirror unavailable")
			}
			return nil
		},
	}

	sessionCmd := &cobra.Command{
		Use:   "session <inviteCode>",
		Short: "Show the remote copy of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := validation.NormalizeInviteCode(args[0])
			if err := validation.ValidateInviteCode(code); err != nil {
				return err
			}
			session, err := a.remote.SessionByCode(cmd.Context(), code)
			if err != nil {
				return fmt.Errorf("fetch session: %w", err)
			}
			if session == nil {
				return fmt.Errorf("no remote session with invite code %s", code)
			}
			return printJSON(cmd.OutOrStdout(), session)
		},
	}

	profileCmd := &cobra.Command{
		Use:   "profile <userId>",
		Short: "Show the remote copy of a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := a.remote.Profile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch profile: %w", err)
			}
			if profile == nil {
				return fmt.Errorf("no remote profile %s", args[0])
			}
			return printJSON(cmd.OutOrStdout(), profile)
		},
	}

	mirrorCmd.AddCommand(pingCmd, sessionCmd, profileCmd)
	return mirrorCmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
