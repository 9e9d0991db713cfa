package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Thamsanqa-bit/penden-storefront/internal/api"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Send a custom print job to the shop",
}

var (
	uploadEmail string
	uploadPhone string
	uploadTitle string
)

var uploadImageCmd = &cobra.Command{
	Use:   "image <file>",
	Short: "Upload a custom image (JPEG, PNG, GIF or WebP, up to 5MB)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		message, err := app.api.UploadImage(cmd.Context(), api.ImageUpload{
			Filename: filepath.Base(args[0]),
			Data:     data,
			Email:    uploadEmail,
			Phone:    uploadPhone,
		})
		if err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	},
}

var uploadPDFCmd = &cobra.Command{
	Use:   "pdf <file>",
	Short: "Upload a stationery PDF (requires sign-in)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read pdf: %w", err)
		}

		if err := app.api.UploadPDF(cmd.Context(), uploadTitle, filepath.Base(args[0]), data); err != nil {
			return describeAuthError(err)
		}
		fmt.Println("PDF uploaded successfully!")
		return nil
	},
}

func init() {
	uploadImageCmd.Flags().StringVar(&uploadEmail, "email", "", "contact email")
	uploadImageCmd.Flags().StringVar(&uploadPhone, "phone", "", "contact phone")
	uploadPDFCmd.Flags().StringVar(&uploadTitle, "title", "", "document title")
	_ = uploadPDFCmd.MarkFlagRequired("title")
	uploadCmd.AddCommand(uploadImageCmd, uploadPDFCmd)
	rootCmd.AddCommand(uploadCmd)
}
