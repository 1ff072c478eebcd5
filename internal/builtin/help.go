package builtin

import (
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tunacmd/internal/command"
)

const helpWidth = 80

func helpTree(reg *command.Registry) *command.Tree {
	return command.NewTree("Lists commands, or shows how to use one of them",
		command.Execute(command.HandlerFunc(func(src command.Sender, _ command.ConsumedArgs) error {
			src.SendMessage(helpTable(reg.Entries()))
			return nil
		})),
		command.Argument("command", commandName(reg)).Execute(command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
			entry, err := command.Arg[command.Entry](args, "command")
			if err != nil {
				return err
			}
			src.SendMessage(helpDetail(entry))
			return nil
		})),
	)
}

// commandName consumes the keyword of a registered command and produces its
// command.Entry.
func commandName(reg *command.Registry) command.Consumer {
	return command.ConsumerFunc(func(_ command.Sender, args *command.RawArgs) (any, bool) {
		tok, ok := args.Peek()
		if !ok {
			return nil, false
		}
		entry, ok := reg.Entry(tok)
		if !ok {
			return nil, false
		}
		args.Pop()
		return entry, true
	})
}

func helpTable(entries []command.Entry) string {
	data := [][]string{{"Command", "Description"}}
	for _, e := range entries {
		data = append(data, []string{e.Name, e.Tree.Description()})
	}

	tableOpts := rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, helpWidth, tableOpts).
		String()
}

func helpDetail(e command.Entry) string {
	var sb strings.Builder

	sb.WriteString(e.Name)
	sb.WriteString(": ")
	sb.WriteString(e.Tree.Description())
	if len(e.Aliases) > 0 {
		sb.WriteString("\nAliases: ")
		sb.WriteString(strings.Join(e.Aliases, ", "))
	}
	sb.WriteString("\nUsage:\n")
	sb.WriteString(e.Usage())

	return sb.String()
}
