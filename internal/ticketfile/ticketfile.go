// Package ticketfile reads and writes INI ticket descriptions:
//
//	[ticket]
//	numbers = 6,13,19,34,41
//	megaball = 23
//	megaplier = true
//	draws = 2
//	purchased = 2024-01-02
package ticketfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"yellowball/internal/lottery"
)

const sectionName = "ticket"

var ErrNotFound = errors.New("ticket file not found")

// ExpandPath resolves a leading ~ and $VARS in path.
func ExpandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Load parses and validates the ticket file at path.
func Load(path string) (lottery.Ticket, error) {
	filename := ExpandPath(path)
	info, err := os.Stat(filename)
	if err != nil || info.IsDir() {
		return lottery.Ticket{}, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:              true,
		SpaceBeforeInlineComment: true,
	}, filename)
	if err != nil {
		return lottery.Ticket{}, lottery.NewValidationError("file", "parse %s: %v", filename, err)
	}

	sec, err := cfg.GetSection(sectionName)
	if err != nil {
		return lottery.Ticket{}, lottery.NewValidationError("file", "no [%s] section in %s", sectionName, filename)
	}

	in := lottery.TicketInput{
		Numbers:   sec.Key("numbers").String(),
		MegaBall:  sec.Key("megaball").String(),
		Draws:     sec.Key("draws").String(),
		Purchased: sec.Key("purchased").String(),
	}
	if sec.HasKey("megaplier") {
		raw := sec.Key("megaplier").String()
		megaplier, err := sec.Key("megaplier").Bool()
		if err != nil {
			return lottery.Ticket{}, lottery.NewValidationError("megaplier", "%q is not true or false", raw)
		}
		in.Megaplier = megaplier
	}

	return lottery.NewTicket(in)
}

// Write stores t at path in the format Load reads.
func Write(path string, t lottery.Ticket) error {
	cfg := ini.Empty()
	sec, err := cfg.NewSection(sectionName)
	if err != nil {
		return err
	}
	sec.Key("numbers").SetValue(lottery.FormatNumbers(t.Numbers, ","))
	sec.Key("megaball").SetValue(strconv.Itoa(t.MegaBall))
	sec.Key("megaplier").SetValue(strconv.FormatBool(t.Megaplier))
	sec.Key("draws").SetValue(strconv.Itoa(t.Draws))
	sec.Key("purchased").SetValue(t.PurchasedString())

	filename := ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	return cfg.SaveTo(filename)
}
