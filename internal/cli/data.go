package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// importCmd imports a broker statement file
type importCmd struct {
	account string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import trades from a broker statement" }
func (*importCmd) Usage() string {
	return `journal import [-a <account>] <statement.csv>

  Imports a delimited statement export with the columns Profit, Commission,
  Swap, Type, Symbol, Close Time and Ticket ID. Rows without a profit and
  tickets already in the journal are skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to import into. Defaults to the selected account.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	env, journal, status := setup(ctx, args)
	if status != subcommands.ExitSuccess {
		return status
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(env.Err, "Error opening statement: %v\n", err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	res, err := journal.ImportStatement(ctx, c.account, file)
	if err != nil {
		fmt.Fprintf(env.Err, "Error importing statement: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(env.Out, "Imported %d trades into %s (%d rows, %d without profit, %d duplicates)\n",
		res.Imported, res.AccountID, res.Rows, res.Skipped, res.Duplicates)
	return subcommands.ExitSuccess
}

// exportCmd writes a backup file
type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a full backup of the journal" }
func (*exportCmd) Usage() string {
	return `journal export [-o <file>]

  Writes every account, trade and transfer to a JSON backup. Without -o the
  file is named tz_backup_<date>.json in the current directory.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Use - for standard output.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	env, journal, status := setup(ctx, args)
	if status != subcommands.ExitSuccess {
		return status
	}

	data, err := journal.ExportBackup()
	if err != nil {
		fmt.Fprintf(env.Err, "Error exporting: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output == "-" {
		env.Out.Write(data)
		return subcommands.ExitSuccess
	}
	path := c.output
	if path == "" {
		path = journal.BackupFilename()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(env.Err, "Error writing %s: %v\n", path, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(env.Out, "Backup written to %s\n", path)
	return subcommands.ExitSuccess
}

// restoreCmd replaces the journal with a backup file
type restoreCmd struct{}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "replace the journal with a backup" }
func (*restoreCmd) Usage() string {
	return `journal restore <backup.json>

  Replaces every account, trade and transfer with the content of a backup.
  Backups written by older versions are upgraded. An unreadable file leaves
  the journal untouched.
`
}
func (*restoreCmd) SetFlags(*flag.FlagSet) {}

func (c *restoreCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	env, journal, status := setup(ctx, args)
	if status != subcommands.ExitSuccess {
		return status
	}

	raw, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintf(env.Err, "Error reading backup: %v\n", err)
		return subcommands.ExitFailure
	}
	res, err := journal.RestoreBackup(ctx, raw)
	if err != nil {
		fmt.Fprintf(env.Err, "Error restoring backup: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(env.Out, "Restored %d accounts, %d trades, %d transfers\n", res.Accounts, res.Trades, res.Transfers)
	return subcommands.ExitSuccess
}
