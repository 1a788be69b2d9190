package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/surround/cli"
	"github.com/grovetools/surround/logging"
	"github.com/grovetools/surround/pkg/paths"
	"github.com/grovetools/surround/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// TailedLine is one log line and the component file it came from.
type TailedLine struct {
	Component string
	Line      string
}

// logFileRe matches the default per-component log file names.
var logFileRe = regexp.MustCompile(`^(.+)-(\d{4}-\d{2}-\d{2})\.log$`)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs [component...]",
		Short: "Display the surround component logs",
		Long: `Prints the most recent log file of each component (controls, gateway,
pluginconfig, surroundctl, ...). Name components to narrow the output.

Examples:
  # Follow every component
  surroundctl logs -f

  # Last 50 lines of the controls session log, as JSON lines
  surroundctl logs controls --tail 50 --json`,
		RunE: runLogsE,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of each file (default: all)")
	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	logger := cli.GetLogger(cmd)
	opts := cli.GetOptions(cmd)
	follow, _ := cmd.Flags().GetBool("follow")
	tailLines, _ := cmd.Flags().GetInt("tail")

	files, err := findLogFiles(cmd, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), theme.DefaultTheme.Muted.Render("No log files found in "+paths.LogDir()))
		return nil
	}

	ctx := commandContext(cmd)
	lineChan := make(chan TailedLine, 100)
	var wg sync.WaitGroup
	for component, path := range files {
		logger.WithFields(logrus.Fields{
			"component": component,
			"log_file":  path,
		}).Debug("Reading log file")

		wg.Add(1)
		go func(component, path string) {
			defer wg.Done()
			offset := readTail(component, path, tailLines, lineChan)
			if follow {
				followFile(ctx.Done(), component, path, offset, lineChan, logger)
			}
		}(component, path)
	}

	go func() {
		wg.Wait()
		close(lineChan)
	}()

	w := cmd.OutOrStdout()
	for line := range lineChan {
		if opts.JSONOutput {
			printLogJSON(w, line)
		} else {
			printLogText(w, line)
		}
	}
	return nil
}

// findLogFiles maps each component to the log file to read. A configured
// logging.file.path stands for every component.
func findLogFiles(cmd *cobra.Command, components []string) (map[string]string, error) {
	if settings, err := cli.LoadSettings(cli.GetOptions(cmd)); err == nil {
		var logCfg logging.Config
		if err := settings.UnmarshalExtension("logging", &logCfg); err == nil && logCfg.File.Enabled && logCfg.File.Path != "" {
			return map[string]string{"all": expandHome(logCfg.File.Path)}, nil
		}
	}
	return latestLogFiles(paths.LogDir(), components)
}

// latestLogFiles returns the newest dated log file per component in dir,
// restricted to components when any are named.
func latestLogFiles(dir string, components []string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	wanted := make(map[string]bool, len(components))
	for _, c := range components {
		wanted[c] = true
	}

	latest := map[string]string{}
	latestDay := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := logFileRe.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		component, day := m[1], m[2]
		if len(wanted) > 0 && !wanted[component] {
			continue
		}
		if day > latestDay[component] {
			latestDay[component] = day
			latest[component] = filepath.Join(dir, entry.Name())
		}
	}
	return latest, nil
}

// readTail sends the last n lines of path (all lines when n < 0) and returns
// the offset reading stopped at.
func readTail(component, path string, n int, out chan<- TailedLine) int64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var lines []string
	var offset int64
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		if strings.HasSuffix(line, "\n") {
			offset += int64(len(line))
			if text := strings.TrimRight(line, "\r\n"); text != "" {
				lines = append(lines, text)
			}
		}
		if err != nil {
			break
		}
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, line := range lines {
		out <- TailedLine{Component: component, Line: line}
	}
	return offset
}

// followFile streams lines appended to path after offset until done closes.
func followFile(done <-chan struct{}, component, path string, offset int64, out chan<- TailedLine, logger *logrus.Entry) {
	t, err := tail.TailFile(path, tail.Config{
		Follow:   true,
		ReOpen:   true,
		Location: &tail.SeekInfo{Offset: offset, Whence: io.SeekStart},
		Logger:   stdlog.New(io.Discard, "", 0),
	})
	if err != nil {
		logger.Debugf("Cannot tail file %s: %v", path, err)
		return
	}
	defer t.Cleanup()

	for {
		select {
		case <-done:
			_ = t.Stop()
			return
		case line, ok := <-t.Lines:
			if !ok {
				return
			}
			if line.Err != nil {
				logger.Debugf("Error reading line from %s: %v", path, line.Err)
				continue
			}
			out <- TailedLine{Component: component, Line: line.Text}
		}
	}
}

// printLogJSON prints a log line as JSON, adding the file's component when
// the line does not carry one.
func printLogJSON(w io.Writer, l TailedLine) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(l.Line), &logMap); err != nil {
		logMap = map[string]interface{}{"raw_line": l.Line}
	}
	if _, ok := logMap["component"]; !ok {
		logMap["component"] = l.Component
	}
	data, _ := json.Marshal(logMap)
	fmt.Fprintln(w, string(data))
}

// printLogText pretty-prints a JSON log line; other lines are printed as is.
func printLogText(w io.Writer, l TailedLine) {
	t := theme.DefaultTheme
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(l.Line), &logMap); err != nil {
		fmt.Fprintf(w, "[%s] %s\n", t.Accent.Render(l.Component), l.Line)
		return
	}

	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)
	component, _ := logMap["component"].(string)
	if component == "" {
		component = l.Component
	}

	parsedTime, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		parsedTime, _ = time.Parse(time.RFC3339, ts)
	}

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = t.Error
	case "warning":
		levelStyle = t.Warning
	case "info":
		levelStyle = t.Info
	default:
		levelStyle = t.Muted
	}

	var keys []string
	for k := range logMap {
		switch k {
		case "time", "level", "msg", "component":
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", t.Muted.Render(k), logMap[k]))
	}

	fmt.Fprintf(w, "%s [%s] %s %s %s\n",
		parsedTime.Format("15:04:05"),
		t.Accent.Render(component),
		levelStyle.Render(strings.ToUpper(level)),
		msg,
		strings.Join(fields, " "),
	)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
