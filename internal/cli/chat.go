package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dkarpov/truthshield/internal/llm"
	"github.com/dkarpov/truthshield/internal/model"
	"github.com/dkarpov/truthshield/internal/pipeline"
	"github.com/dkarpov/truthshield/internal/session"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Discuss claims with the fact-checking assistant",
	Long: `Chat starts an interactive conversation. Each message is checked for a
factual claim; when one is found, matching fact-check records are retrieved
and the assistant answers from those records.

Commands inside the session:
  /clear        reset the conversation
  /lang <code>  switch the fact-check result language
  /quit         leave`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	// Provider resolution happens once; a missing key disables chat before
	// any network call.
	provider, err := llm.Resolve(cfg.Chat, os.Stderr)
	if err != nil {
		return fmt.Errorf("chat is disabled: %w", err)
	}

	searcher, err := newSearcher(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Chat provider: %s\n", provider.Name())
	}

	sess := session.New(cfg.FactCheck.Language, cfg.FactCheck.PageSize)
	assistant := pipeline.NewAssistant(searcher, provider, cfg.Chat.ExtractionModel)

	fmt.Println("Ask about a news claim or topic. /quit to leave.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/clear":
			if _, err := assistant.Handle(context.Background(), sess, pipeline.ChatCleared{}); err == nil {
				fmt.Println("Conversation cleared.")
			}
			continue
		case strings.HasPrefix(line, "/lang "):
			code := strings.TrimSpace(strings.TrimPrefix(line, "/lang "))
			sess.SetLanguage(code)
			fmt.Printf("Language set to %s.\n", code)
			continue
		}

		outcome, err := assistant.Handle(context.Background(), sess, pipeline.MessageSubmitted{Text: line})
		if err != nil {
			fmt.Println(userMessage(err))
			continue
		}

		if verbose {
			for _, warning := range outcome.Warnings {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
			}
		}
		fmt.Printf("assistant> %s\n\n", outcome.Reply.Text)
	}
}

// userMessage translates a typed failure into the visible message shown in
// place of a reply. Prior conversation state is unchanged at this point.
func userMessage(err error) string {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Sprintf("⚠ %v", validationErr)
	}
	var upstreamErr *model.UpstreamError
	if errors.As(err, &upstreamErr) {
		if upstreamErr.Timeout {
			return "Sorry, the request timed out. Please try again."
		}
		return fmt.Sprintf("Sorry, a service request failed (%v). Please try again.", upstreamErr)
	}
	return fmt.Sprintf("Sorry, something went wrong: %v", err)
}
