package present

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rushteam/pantryrec/core"
	"github.com/rushteam/pantryrec/pantry"
)

// Prompter 是终端问答：从 In 读取一行回答，提示写到 Out。
type Prompter struct {
	in  *bufio.Reader
	Out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), Out: out}
}

// readLine 读取一行；输入结束且没有内容时返回 io.EOF。
func (p *Prompter) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.Out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskGranularity 反复询问 1–5 的口味开放程度，直到输入合法。
func (p *Prompter) AskGranularity() (core.Granularity, error) {
	for {
		line, err := p.readLine("How adventurous are you feeling today? (1 = stick to the classics, 5 = surprise me): ")
		if err != nil {
			return 0, err
		}
		g, err := core.ParseGranularity(line)
		if err == nil {
			return g, nil
		}
		fmt.Fprintf(p.Out, "Please enter a number from %d to %d.\n", core.MinGranularity, core.MaxGranularity)
	}
}

// ReadEntries 读取 "name;YYYY-MM-DD" 行，空行结束。格式错误的行提示后跳过。
func (p *Prompter) ReadEntries() ([]pantry.Entry, error) {
	fmt.Fprintln(p.Out, "Enter pantry items as name;YYYY-MM-DD, one per line. Finish with an empty line.")
	var entries []pantry.Entry
	for {
		line, err := p.readLine("> ")
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		if line == "" {
			return entries, nil
		}
		e, err := pantry.ParseEntry(line)
		if err != nil {
			fmt.Fprintf(p.Out, "Skipped: %v\n", err)
			continue
		}
		entries = append(entries, e)
	}
}

// AskYesNo 询问是/否，只接受 yes/y/no/n（不区分大小写）。
func (p *Prompter) AskYesNo(question string) (bool, error) {
	for {
		line, err := p.readLine(question + " (yes/no): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		fmt.Fprintln(p.Out, "Please answer yes or no.")
	}
}
