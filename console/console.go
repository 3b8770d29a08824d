/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package console

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/suparena/recordstore/errors"
	"github.com/suparena/recordstore/models"
	"github.com/suparena/recordstore/storage"
	"github.com/suparena/recordstore/storagemodels"
)

// DefaultPrompt is printed before every command.
const DefaultPrompt = "(hbnb) "

// User-facing messages.
const (
	msgClassMissing    = "** class name missing **"
	msgClassUnknown    = "** class doesn't exist **"
	msgIDMissing       = "** instance id missing **"
	msgNoInstance      = "** no instance found **"
	msgAttrMissing     = "** attribute name missing **"
	msgValueMissing    = "** value missing **"
	msgAttrReadOnly    = "** attribute can't be updated **"
	msgInvalidValue    = "** invalid value **"
	msgUnknownSyntax   = "*** Unknown syntax: %s"
	msgStoreErrorFmt   = "** store error: %v **"
	msgUnterminatedArg = "** unterminated quote **"
)

// Console is a line-oriented command interpreter over a record registry.
// It is the only layer that turns engine errors into text.
type Console struct {
	reg    *storage.Registry
	in     io.Reader
	out    io.Writer
	prompt string
	logger *slog.Logger
}

// Option configures a Console.
type Option func(*Console)

// WithPrompt replaces DefaultPrompt. An empty prompt prints nothing.
func WithPrompt(p string) Option {
	return func(c *Console) {
		c.prompt = p
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		c.logger = l
	}
}

// New returns a console reading commands from in and writing to out.
func New(reg *storage.Registry, in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		reg:    reg,
		in:     in,
		out:    out,
		prompt: DefaultPrompt,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run reads and executes commands until quit, EOF or end of input.
func (c *Console) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, c.prompt)
		if !scanner.Scan() {
			if c.prompt != "" {
				fmt.Fprintln(c.out)
			}
			return scanner.Err()
		}
		if c.Execute(ctx, scanner.Text()) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Execute runs a single command line and reports whether the console
// should stop.
func (c *Console) Execute(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if verb, args, object, ok := rewriteDotCall(line); ok {
		c.logger.Debug("console: command", "verb", verb, "dot", true)
		if verb == "update" && object != "" {
			c.updateFromObject(ctx, args, object)
			return false
		}
		return c.dispatch(ctx, verb, args, line)
	}

	args, err := splitArgs(line)
	if err != nil {
		c.println(msgUnterminatedArg)
		return false
	}
	c.logger.Debug("console: command", "verb", args[0])
	return c.dispatch(ctx, args[0], args[1:], line)
}

func (c *Console) dispatch(ctx context.Context, verb string, args []string, line string) bool {
	switch verb {
	case "quit", "EOF":
		return true
	case "help":
		c.help(args)
	case "create":
		c.create(ctx, args)
	case "show":
		c.show(args)
	case "destroy":
		c.destroy(ctx, args)
	case "all":
		c.all(args)
	case "count":
		c.count(args)
	case "update":
		c.update(ctx, args)
	default:
		c.printf(msgUnknownSyntax+"\n", line)
	}
	return false
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// report maps an engine error to its user message.
func (c *Console) report(err error) {
	switch {
	case errors.IsCorruptStore(err), errors.IsIOFailure(err):
		c.printf(msgStoreErrorFmt+"\n", err)
	case errors.IsUnknownVariant(err):
		c.println(msgClassUnknown)
	case errors.IsNotFound(err):
		c.println(msgNoInstance)
	case errors.IsValidationError(err):
		c.println(msgAttrReadOnly)
	case errors.IsParseError(err):
		c.println(msgInvalidValue)
	default:
		c.printf(msgStoreErrorFmt+"\n", err)
	}
}

// class validates args[0] as a variant name.
func (c *Console) class(args []string) (*models.Variant, bool) {
	if len(args) == 0 {
		c.println(msgClassMissing)
		return nil, false
	}
	v, err := c.reg.Catalog().Lookup(args[0])
	if err != nil {
		c.report(err)
		return nil, false
	}
	return v, true
}

// instance validates args[0:2] as an existing record.
func (c *Console) instance(args []string) (*models.Model, bool) {
	v, ok := c.class(args)
	if !ok {
		return nil, false
	}
	if len(args) < 2 {
		c.println(msgIDMissing)
		return nil, false
	}
	m, err := c.reg.Get(v.Name(), args[1])
	if err != nil {
		c.report(err)
		return nil, false
	}
	return m, true
}

func (c *Console) create(ctx context.Context, args []string) {
	v, ok := c.class(args)
	if !ok {
		return
	}
	m := models.New(v, c.reg)
	if err := m.Save(ctx); err != nil {
		c.report(err)
		return
	}
	c.println(m.ID())
}

func (c *Console) show(args []string) {
	if m, ok := c.instance(args); ok {
		c.println(m.String())
	}
}

func (c *Console) destroy(ctx context.Context, args []string) {
	m, ok := c.instance(args)
	if !ok {
		return
	}
	if err := c.reg.Delete(m.Variant().Name(), m.ID()); err != nil {
		c.report(err)
		return
	}
	if err := c.reg.Save(ctx); err != nil {
		c.report(err)
	}
}

func (c *Console) all(args []string) {
	filter := ""
	if len(args) > 0 {
		v, ok := c.class(args)
		if !ok {
			return
		}
		filter = v.Name()
	}

	all := c.reg.All()
	keys := make([]string, 0, len(all))
	for k, m := range all {
		if filter == "" || m.Variant().Name() == filter {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = all[k].String()
	}
	c.println("[" + strings.Join(out, ", ") + "]")
}

func (c *Console) count(args []string) {
	v, ok := c.class(args)
	if !ok {
		return
	}
	c.println(strconv.Itoa(c.reg.Count(v.Name())))
}

func (c *Console) update(ctx context.Context, args []string) {
	m, ok := c.instance(args)
	if !ok {
		return
	}
	if len(args) < 3 {
		c.println(msgAttrMissing)
		return
	}
	if len(args) < 4 {
		c.println(msgValueMissing)
		return
	}

	name := args[2]
	if isReserved(name) {
		c.println(msgAttrReadOnly)
		return
	}
	val, err := parseValue(m.Variant(), name, args[3])
	if err != nil {
		c.report(err)
		return
	}
	if err := m.Set(name, val); err != nil {
		c.report(err)
		return
	}
	if err := m.Save(ctx); err != nil {
		c.report(err)
	}
}

// updateFromObject applies `<Class>.update("<id>", {"attr": value, ...})`.
// Every value is checked before any is applied.
func (c *Console) updateFromObject(ctx context.Context, args []string, object string) {
	m, ok := c.instance(args)
	if !ok {
		return
	}

	dec := json.NewDecoder(strings.NewReader(object))
	dec.UseNumber()
	var attrs map[string]any
	if err := dec.Decode(&attrs); err != nil {
		c.println(msgInvalidValue)
		return
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if isReserved(name) {
			c.println(msgAttrReadOnly)
			return
		}
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]any, len(attrs))
	for _, name := range names {
		raw := attrs[name]
		if s, isText := raw.(string); isText {
			val, err := parseValue(m.Variant(), name, s)
			if err != nil {
				c.report(err)
				return
			}
			values[name] = val
			continue
		}
		values[name] = raw
	}

	if err := m.SetAll(values); err != nil {
		c.report(err)
		return
	}
	if err := m.Save(ctx); err != nil {
		c.report(err)
	}
}

func (c *Console) help(args []string) {
	if len(args) > 0 {
		if text, ok := helpText[args[0]]; ok {
			c.println(text)
			return
		}
		c.printf("*** No help on %s\n", args[0])
		return
	}
	verbs := make([]string, 0, len(helpText))
	for verb := range helpText {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	c.println("Documented commands (type help <topic>):")
	c.println(strings.Join(verbs, "  "))
}

var helpText = map[string]string{
	"create":  "create <Class>: create a record, save it and print its id",
	"show":    "show <Class> <id>: print a record",
	"destroy": "destroy <Class> <id>: delete a record and save",
	"all":     "all [<Class>]: print every record, optionally of one class",
	"count":   "count <Class>: print the number of records of a class",
	"update":  "update <Class> <id> <attribute> \"<value>\": set an attribute and save",
	"quit":    "quit: exit the console",
	"EOF":     "EOF: exit the console",
}

func isReserved(name string) bool {
	switch name {
	case storagemodels.FieldID, storagemodels.FieldCreatedAt, storagemodels.FieldUpdatedAt, storagemodels.FieldClass:
		return true
	}
	return false
}

// parseValue coerces text by the declared attribute type of v, or guesses
// a number for undeclared attributes.
func parseValue(v *models.Variant, name, text string) (any, error) {
	if attr, ok := v.Attribute(name); ok {
		return attr.ParseText(text)
	}
	return models.ParseLiteral(text), nil
}
