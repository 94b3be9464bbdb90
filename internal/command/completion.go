// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/srbutler1/hmdactl/internal/meta"
)

const bashCompletionScript = `# bash completion for hmdactl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_hmdactl()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "aq cache dq fq lq completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
  local common="--color -c --columns -a --filter -f --output -o --sort -s --titles -t"

    case "$cmd" in
    aq)
      local opts="$common --year -y --states --msamds --where -W --by --census-file --cache --no-cache --host"
            ;;
    lq)
      local opts="$common --year -y --states --msamds --where -W --cache --no-cache --host"
            ;;
        fq)
      local opts="$common --year -y --states --msamds --host"
            ;;
        dq)
      local opts="$common --census-file --tract"
            ;;
        cache)
      local opts="$common --purge"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common"
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "text csv json yaml raw" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--by" ]]; then
        COMPREPLY=( $(compgen -W "approval denial race ethnicity sex levels qc validate" -- "$cur") )
        return 0
    fi

    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
}

complete -F _hmdactl hmdactl
`

const zshCompletionScript = `#compdef hmdactl

_hmdactl() {
  local -a cmds
  cmds=(
    'aq:analysis query'
    'cache:inspect or purge the fetch cache'
    'dq:demographics query'
    'fq:filer query'
    'lq:loan query'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '(-a --columns)'{-a,--columns}'[columns to include]:columns'
  '(-c --color)'{-c,--color}'[enable colored text]'
  '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
  '(-o --output)'{-o,--output}'[output format]:format:(text csv json yaml raw)'
  '(-s --sort)'{-s,--sort}'[sort columns]:columns'
  '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'hmdactl commands' cmds
    return
  fi

  case $words[2] in
    aq)
      _arguments -C \
        $common \
        '(-y --year)'{-y,--year}'[filing year]:year' \
        '--states[state codes]:states' \
        '--msamds[MSA/MD codes]:msamds' \
        '(-W --where)'{-W,--where}'[Data Browser filter]:filter' \
        '--by[report to compute]:report:(approval denial race ethnicity sex levels qc validate)' \
        '--census-file[census flat file]:file:_files' \
        '--cache[use the fetch cache]' \
        '--no-cache[bypass the fetch cache]' \
        '--host[API base URL]:url'
      ;;
    lq)
      _arguments -C \
        $common \
        '(-y --year)'{-y,--year}'[filing year]:year' \
        '--states[state codes]:states' \
        '--msamds[MSA/MD codes]:msamds' \
        '(-W --where)'{-W,--where}'[Data Browser filter]:filter' \
        '--cache[use the fetch cache]' \
        '--no-cache[bypass the fetch cache]' \
        '--host[API base URL]:url'
      ;;
    fq)
      _arguments -C \
        $common \
        '(-y --year)'{-y,--year}'[filing year]:year' \
        '--states[state codes]:states' \
        '--msamds[MSA/MD codes]:msamds' \
        '--host[API base URL]:url'
      ;;
    dq)
      _arguments -C \
        $common \
        '--census-file[census flat file]:file:_files' \
        '--tract[census tract]:tract'
      ;;
    cache)
      _arguments -C \
        $common \
        '--purge[purge entries older than hours]:hours'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _hmdactl hmdactl
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(os.Stdout, bashCompletionScript)
	case "zsh":
		fmt.Fprint(os.Stdout, zshCompletionScript)
	default:
		// Try to detect from SHELL or print help
		sh := os.Getenv("SHELL")
		if strings.HasSuffix(sh, "zsh") {
			fmt.Fprint(os.Stdout, zshCompletionScript)
		} else if strings.HasSuffix(sh, "bash") {
			fmt.Fprint(os.Stdout, bashCompletionScript)
		} else {
			fmt.Fprintln(os.Stderr, "usage: hmdactl completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func CompletionCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "hmdactl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: CompletionCommandAction,
	}
}
