package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"messapp/internal/domain/model"
	"messapp/internal/domain/ordering"
	auth "messapp/internal/usecase/auth_usecase"
	"messapp/internal/workflow"
)

type authenticator interface {
	Login(ctx context.Context, enrollment, password string) (auth.LoginOutput, error)
	Logout(ctx context.Context) error
}

var errUsage = errors.New("usage")

type command struct {
	args  string
	help  string
	run   func(ctx context.Context, args []string) error
	nargs int
}

type shell struct {
	auth      authenticator
	session   *workflow.Session
	orders    *workflow.OrderWorkflow
	subs      *workflow.SubscriptionState
	approvals *workflow.ApprovalWorkflow
	out       io.Writer
	commands  map[string]command
}

func newShell(a authenticator, gw workflow.Gateway, out io.Writer, now func() time.Time) *shell {
	s := workflow.NewSession(now)
	sh := &shell{
		auth:      a,
		session:   s,
		orders:    workflow.NewOrderWorkflow(gw, s),
		subs:      workflow.NewSubscriptionState(gw, s),
		approvals: workflow.NewApprovalWorkflow(gw),
		out:       out,
	}
	sh.commands = map[string]command{
		"login":     {args: "<enrollment> <password>", nargs: 2, run: sh.login},
		"logout":    {run: sh.logout},
		"name":      {args: "<student name>", nargs: -1, run: sh.name},
		"menu":      {run: sh.menu},
		"add":       {args: "<item id>", nargs: 1, run: sh.add},
		"remove":    {args: "<item id>", nargs: 1, run: sh.remove},
		"qty":       {args: "<item id> <quantity>", nargs: 2, run: sh.qty},
		"cart":      {run: sh.cart},
		"submit":    {run: sh.submit},
		"history":   {run: sh.history},
		"sub":       {run: sh.subscription},
		"subscribe": {args: "<3|6|12>", nargs: 1, run: sh.subscribe},
		"cancel":    {run: sh.cancel},
		"pending":   {help: "admin", run: sh.pending},
		"approve":   {args: "<order id>", help: "admin", nargs: 1, run: sh.decide(true)},
		"reject":    {args: "<order id>", help: "admin", nargs: 1, run: sh.decide(false)},
	}
	return sh
}

// run reads one command per line until EOF, "quit" or ctx is done.
// Command failures are printed; only read errors end the loop with an error.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(sh.out, "> ")
		if ctx.Err() != nil || !sc.Scan() {
			fmt.Fprintln(sh.out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		sh.exec(ctx, fields[0], fields[1:])
	}
}

func (sh *shell) exec(ctx context.Context, name string, args []string) {
	cmd, ok := sh.commands[name]
	if !ok {
		sh.printHelp()
		return
	}
	if (cmd.nargs >= 0 && len(args) != cmd.nargs) || (cmd.nargs < 0 && len(args) == 0) {
		fmt.Fprintf(sh.out, "usage: %s %s\n", name, cmd.args)
		return
	}
	if err := cmd.run(ctx, args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(sh.out, "usage: %s %s\n", name, cmd.args)
			return
		}
		fmt.Fprintln(sh.out, "error:", workflow.Message(err))
	}
}

func (sh *shell) printHelp() {
	names := []string{"login", "logout", "name", "menu", "add", "remove", "qty", "cart", "submit",
		"history", "sub", "subscribe", "cancel", "pending", "approve", "reject"}
	for _, n := range names {
		c := sh.commands[n]
		line := strings.TrimSpace(n + " " + c.args)
		if c.help != "" {
			line += "  (" + c.help + ")"
		}
		fmt.Fprintln(sh.out, " ", line)
	}
	fmt.Fprintln(sh.out, "  quit")
}

func (sh *shell) login(ctx context.Context, args []string) error {
	out, err := sh.auth.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	sh.session.SetStudentName(out.User.Name)
	fmt.Fprintf(sh.out, "signed in as %s (%s)\n", out.User.Name, out.User.Role)
	if err := sh.orders.RefreshCatalog(ctx); err != nil {
		return err
	}
	if out.User.Role == model.RoleStudent {
		_, err = sh.subs.Current(ctx)
	}
	return err
}

func (sh *shell) logout(ctx context.Context, _ []string) error {
	if err := sh.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "signed out")
	return nil
}

func (sh *shell) name(_ context.Context, args []string) error {
	sh.session.SetStudentName(strings.Join(args, " "))
	return nil
}

func (sh *shell) menu(ctx context.Context, _ []string) error {
	if err := sh.orders.RefreshCatalog(ctx); err != nil {
		return err
	}
	cat := sh.session.Catalog()
	if cat.IsEmpty() {
		fmt.Fprintln(sh.out, "menu is empty")
		return nil
	}
	for _, c := range cat.Categories() {
		fmt.Fprintf(sh.out, "%s (%s)\n", c.Name, c.Window)
		for _, it := range c.Items {
			price := "counter"
			if it.Price.Valid {
				price = "Rs " + strconv.FormatInt(it.Price.Amount, 10)
			}
			fmt.Fprintf(sh.out, "  %3d  %-28s %s\n", it.ID, it.Name, price)
		}
	}
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errUsage
	}
	return id, nil
}

func (sh *shell) add(_ context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if !sh.orders.Add(id) {
		fmt.Fprintln(sh.out, "no such item on the menu")
		return nil
	}
	sh.printCart()
	return nil
}

func (sh *shell) remove(_ context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	sh.orders.Remove(id)
	sh.printCart()
	return nil
}

func (sh *shell) qty(_ context.Context, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	n, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return errUsage
	}
	sh.orders.SetQuantity(id, n)
	sh.printCart()
	return nil
}

func (sh *shell) cart(context.Context, []string) error {
	sh.printCart()
	return nil
}

func (sh *shell) printCart() {
	lines := sh.session.CartLines()
	if len(lines) == 0 {
		fmt.Fprintln(sh.out, "cart is empty")
		return
	}
	for _, l := range lines {
		fmt.Fprintf(sh.out, "  %3d  %-28s x%d\n", l.ItemID, l.Name, l.Quantity)
	}
	fmt.Fprintf(sh.out, "total: Rs %d\n", sh.session.CartTotal())
}

func (sh *shell) submit(ctx context.Context, _ []string) error {
	o, err := sh.orders.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "order #%d %s (%s)\n", o.ID, o.Status, o.PaymentMethod)
	if n := sh.orders.State().Notice; n != "" {
		fmt.Fprintln(sh.out, n)
	}
	return nil
}

func (sh *shell) history(ctx context.Context, _ []string) error {
	orders, err := sh.orders.History(ctx)
	if err != nil {
		return err
	}
	sh.printOrders(orders)
	return nil
}

func (sh *shell) printOrders(orders []ordering.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(sh.out, "no orders")
		return
	}
	for _, o := range orders {
		kind := "now"
		if o.IsPreorder {
			kind = "pre-order " + o.Category
		}
		fmt.Fprintf(sh.out, "  #%d  %-9s %-22s %s  %d item(s)\n", o.ID, o.Status, kind, o.StudentName, len(o.Items))
	}
}

func (sh *shell) subscription(ctx context.Context, _ []string) error {
	rec, err := sh.subs.Current(ctx)
	if err != nil {
		return err
	}
	if rec == nil {
		fmt.Fprintln(sh.out, "no subscription")
		return nil
	}
	fmt.Fprintf(sh.out, "%s, %d months, pass %s\n", rec.Status, int(rec.Duration), rec.MessPassNumber)
	return nil
}

func (sh *shell) subscribe(ctx context.Context, args []string) error {
	months, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage
	}
	rec, err := sh.subs.Subscribe(ctx, months)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "subscribed for %d months, pass %s\n", int(rec.Duration), rec.MessPassNumber)
	return nil
}

func (sh *shell) cancel(ctx context.Context, _ []string) error {
	if err := sh.subs.Cancel(ctx); err != nil {
		return err
	}
	fmt.Fprintln(sh.out, "subscription cancelled")
	return nil
}

func (sh *shell) pending(ctx context.Context, _ []string) error {
	orders, err := sh.approvals.Pending(ctx)
	if err != nil {
		return err
	}
	sh.printOrders(orders)
	return nil
}

func (sh *shell) decide(approve bool) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := sh.approvals.Decide(ctx, id, approve); err != nil {
			return err
		}
		verdict := "rejected"
		if approve {
			verdict = "approved"
		}
		fmt.Fprintf(sh.out, "order #%d %s\n", id, verdict)
		return nil
	}
}
