package cli

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted 用户在提示中按了 Ctrl-C
var ErrAborted = errors.New("aborted")

// Prompter 交互输入；测试里替换成脚本化实现
type Prompter interface {
	Input(ctx context.Context, msg, def string) (string, error)
}

type SurveyPrompter struct{}

func (SurveyPrompter) Input(ctx context.Context, msg, def string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	if err := survey.AskOne(&survey.Input{Message: msg, Default: def}, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", err
	}
	return out, nil
}
