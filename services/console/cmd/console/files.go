package main

import (
	"github.com/spf13/cobra"

	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/view"
)

func newFilesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Upload images for services, staff and users",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "upload <path>",
		Short: "Upload an image (jpg, jpeg, png, gif or webp, up to 5 MiB)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := a.hooks.UploadImage().Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return view.Record(a.out, view.ImageColumns, img)
		},
	})
	return cmd
}
