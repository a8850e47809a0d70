package dispatch

import "sort"

// Command is a closed set of message names exchanged with the editor surface.
type Command string

const (
	CommandLoadData         Command = "loadData"
	CommandDataLoaded       Command = "dataLoaded"
	CommandSaveJSON         Command = "saveJson"
	CommandExportJSON       Command = "exportJson"
	CommandOpenConfig       Command = "openConfig"
	CommandReloadForm       Command = "reloadForm"
	CommandShowNotification Command = "showNotification"
	CommandReportIssue      Command = "reportIssue"
	CommandConfirm          Command = "confirm"
	CommandCancel           Command = "cancel"
	CommandBrowseSchema     Command = "browseSchema"
	CommandBrowseOptions    Command = "browseOptions"
)

// Direction states who sends a command.
type Direction string

const (
	// Inbound commands travel from the surface to the controller.
	Inbound Direction = "inbound"
	// Outbound commands travel from the controller to the surface.
	Outbound Direction = "outbound"
	// Wizard commands belong to the configuration flow.
	Wizard Direction = "wizard"
)

var directions = map[Command]Direction{
	CommandLoadData:         Inbound,
	CommandDataLoaded:       Outbound,
	CommandSaveJSON:         Inbound,
	CommandExportJSON:       Inbound,
	CommandOpenConfig:       Inbound,
	CommandReloadForm:       Inbound,
	CommandShowNotification: Inbound,
	CommandReportIssue:      Inbound,
	CommandConfirm:          Wizard,
	CommandCancel:           Wizard,
	CommandBrowseSchema:     Wizard,
	CommandBrowseOptions:    Wizard,
}

// Direction returns the command direction, or "" for unknown commands.
func (c Command) Direction() Direction {
	return directions[c]
}

// Valid reports whether c is part of the command set.
func (c Command) Valid() bool {
	_, ok := directions[c]
	return ok
}

func (c Command) String() string {
	return string(c)
}

// ParseCommand maps a wire name onto a Command.
func ParseCommand(name string) (Command, bool) {
	cmd := Command(name)
	return cmd, cmd.Valid()
}

// Commands lists the full command set in name order.
func Commands() []Command {
	out := make([]Command, 0, len(directions))
	for cmd := range directions {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// InboundCommands lists the commands the controller must handle.
func InboundCommands() []Command {
	return filter(Inbound)
}

// WizardCommands lists the configuration flow commands.
func WizardCommands() []Command {
	return filter(Wizard)
}

func filter(dir Direction) []Command {
	var out []Command
	for _, cmd := range Commands() {
		if cmd.Direction() == dir {
			out = append(out, cmd)
		}
	}
	return out
}
