// Package quizcmder provides the quiz command with subcommands to generate
// quiz questions from a session and grade answers to them.
package quizcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	sharedcmder "github.com/papercomputeco/graphchat/cmd/graphchat/shared"
	"github.com/papercomputeco/graphchat/pkg/cliui"
)

const quizLongDesc string = `Quiz yourself on a session.

Examples:
  graphchat quiz generate --count 3
  graphchat quiz grade q-12 "a borrow cannot outlive its owner"`

const quizShortDesc string = "Generate and grade quiz questions"

type quizCommander struct {
	generateFlags sharedcmder.ClientFlags
	gradeFlags    sharedcmder.ClientFlags
	sessionID     string
	count         int
}

func NewQuizCmd() *cobra.Command {
	cmder := &quizCommander{}

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: quizShortDesc,
		Long:  quizLongDesc,
	}
	cmd.PersistentFlags().StringVarP(&cmder.sessionID, "session", "s", "", "Session id (default: last session)")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate quiz questions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.withSession(cmd, cmder.generate)
		},
	}
	sharedcmder.AddClientFlags(generate, &cmder.generateFlags)
	generate.Flags().IntVarP(&cmder.count, "count", "c", 5, "Number of questions")

	grade := &cobra.Command{
		Use:   "grade <quiz-id> <answer>",
		Short: "Grade an answer to a quiz question",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.withSession(cmd, func(cmd *cobra.Command, env *sharedcmder.Env, sessionID string) error {
				return cmder.grade(cmd, env, sessionID, args[0], strings.Join(args[1:], " "))
			})
		},
	}
	sharedcmder.AddClientFlags(grade, &cmder.gradeFlags)

	cmd.AddCommand(generate, grade)
	return cmd
}

type sessionFunc func(cmd *cobra.Command, env *sharedcmder.Env, sessionID string) error

func (c *quizCommander) withSession(cmd *cobra.Command, fn sessionFunc) error {
	env, err := sharedcmder.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	sessionID, err := env.SessionID(c.sessionID)
	if err != nil {
		return err
	}
	return fn(cmd, env, sessionID)
}

func (c *quizCommander) generate(cmd *cobra.Command, env *sharedcmder.Env, sessionID string) error {
	items, err := env.Client.GenerateQuiz(cmd.Context(), sessionID, c.count)
	if err != nil {
		return fmt.Errorf("generating quiz: %w", err)
	}

	out := cmd.OutOrStdout()
	for i, item := range items {
		fmt.Fprintf(out, "\n  %s %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.ValueStyle.Render(item.Question),
			cliui.DimStyle.Render("["+item.Difficulty+"]"),
		)
		fmt.Fprintf(out, "     %s %s\n", cliui.KeyStyle.Render("id:"), cliui.IDStyle.Render(item.QuizID))
	}
	fmt.Fprintln(out)
	return nil
}

func (c *quizCommander) grade(cmd *cobra.Command, env *sharedcmder.Env, sessionID, quizID, answer string) error {
	grade, err := env.Client.GradeQuiz(cmd.Context(), sessionID, quizID, answer)
	if err != nil {
		return fmt.Errorf("grading answer: %w", err)
	}

	mark, verdict := cliui.FailMark, "Incorrect"
	if grade.Correct {
		mark, verdict = cliui.SuccessMark, "Correct"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s %s %s\n",
		mark,
		cliui.NameStyle.Render(verdict),
		cliui.DimStyle.Render(fmt.Sprintf("(mastery %+.2f)", grade.MasteryDelta)),
	)
	if grade.Feedback != "" {
		fmt.Fprintf(out, "  %s\n", cliui.ValueStyle.Render(grade.Feedback))
	}
	fmt.Fprintln(out)
	return nil
}
