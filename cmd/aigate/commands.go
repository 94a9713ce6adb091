package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	ai "github.com/spetersoncode/aigate"
	"github.com/spetersoncode/aigate/client"
)

func completeCmd(a *app) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "complete [prompt]",
		Short: "Generate a completion (prompt from args or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := conversation(cmd, system, args)
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *client.Client, opts []ai.Option) error {
				text, err := c.GenerateCompletion(ctx, messages, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&system, "system", "s", "", "System instruction")
	return cmd
}

func streamCmd(a *app) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "stream [prompt]",
		Short: "Stream a completion as it is generated",
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := conversation(cmd, system, args)
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *client.Client, opts []ai.Option) error {
				stream, err := c.GenerateStreamingCompletion(ctx, messages, opts...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for chunk, err := range stream {
					if err != nil {
						fmt.Fprintln(out)
						return err
					}
					fmt.Fprint(out, chunk)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&system, "system", "s", "", "System instruction")
	return cmd
}

func extractCmd(a *app) *cobra.Command {
	var schema ai.ExtractionSchema
	cmd := &cobra.Command{
		Use:     "extract [text]",
		Short:   "Extract JSON data from text",
		Example: `  echo "John is 30 years old" | aigate extract --shape '{"name": string, "age": integer}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input(cmd, args)
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *client.Client, opts []ai.Option) error {
				data, err := client.ExtractStructuredData[any](ctx, c, text, schema, opts...)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), data)
			})
		},
	}
	cmd.Flags().StringVar(&schema.Description, "shape", "", "Description of the JSON shape to extract")
	cmd.Flags().StringVar(&schema.Example, "example", "", "Example output")
	_ = cmd.MarkFlagRequired("shape")
	return cmd
}

func embedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "embed [text]",
		Short: "Print the embedding vector of text as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := input(cmd, args)
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *client.Client, opts []ai.Option) error {
				vec, err := c.GenerateEmbedding(ctx, text, opts...)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"dimensions": vec.Dimensions(),
					"embedding":  vec,
				})
			})
		},
	}
}

func imageCmd(a *app) *cobra.Command {
	var shape string
	cmd := &cobra.Command{
		Use:   "image <file> [prompt]",
		Short: "Analyze an image file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[0])
			if err != nil {
				return err
			}
			prompt := strings.Join(args[1:], " ")
			return a.run(cmd, func(ctx context.Context, c *client.Client, opts []ai.Option) error {
				if shape != "" {
					data, err := client.AnalyzeImageAs[any](ctx, c, payload, prompt, ai.ExtractionSchema{Description: shape}, opts...)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), data)
				}
				text, err := c.AnalyzeImage(ctx, payload, prompt, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&shape, "shape", "", "Answer as JSON with this shape")
	return cmd
}

func transcribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <file> [prompt]",
		Short: "Transcribe an audio file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(args[0])
			if err != nil {
				return err
			}
			prompt := strings.Join(args[1:], " ")
			return a.run(cmd, func(ctx context.Context, c *client.Client, opts []ai.Option) error {
				text, err := c.TranscribeAudio(ctx, payload, prompt, opts...)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			})
		},
	}
}

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate configuration and list providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration OK (primary: %s)\n", cfg.Primary)

			providers := make([]ai.Provider, 0, len(cfg.Credentials))
			for p := range cfg.Credentials {
				providers = append(providers, p)
			}
			slices.Sort(providers)
			for _, p := range providers {
				pc := cfg.Provider(p)
				model := pc.DefaultModel
				if model == "" {
					model = "(adapter default)"
				}
				role := ""
				switch {
				case p == cfg.Primary:
					role = " primary"
				case slices.Contains(cfg.Fallbacks, p):
					role = " fallback"
				}
				fmt.Fprintf(out, "  %-10s keys=%d model=%s%s\n", p, len(cfg.Credentials[p]), model, role)
			}
			return nil
		},
	})
	return cmd
}

// conversation builds the messages for a prompt.
func conversation(cmd *cobra.Command, system string, args []string) ([]ai.Message, error) {
	prompt, err := input(cmd, args)
	if err != nil {
		return nil, err
	}
	var messages []ai.Message
	if system != "" {
		messages = append(messages, ai.SystemMessage(system))
	}
	return append(messages, ai.UserMessage(prompt)), nil
}

// input returns the joined args, or stdin when there are none.
func input(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("%w: pass text as arguments or on stdin", ai.ErrEmptyInput)
	}
	return text, nil
}

// readPayload loads a media file, taking the MIME type from the extension
// and falling back to content sniffing.
func readPayload(path string) (ai.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ai.Payload{}, err
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return ai.NewPayload(mimeType, data), nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
