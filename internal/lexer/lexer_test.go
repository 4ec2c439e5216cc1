package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenize_SimpleCommand(t *testing.T) {
	toks, err := Tokenize("echo hello\n")
	require.NoError(t, err)
	require.Equal(t, []Kind{Word, Word, Newline, EOF}, kinds(toks))
	assert.Equal(t, "echo", toks[0].Value)
	assert.Equal(t, "hello", toks[1].Value)
	assert.False(t, toks[0].SpaceBefore)
	assert.True(t, toks[1].SpaceBefore)
}

func TestTokenize_Operators(t *testing.T) {
	cases := []struct {
		src  string
		want Kind
	}{
		{"a|b", Pipe},
		{"a|&b", PipeAmp},
		{"a&&b", AndAnd},
		{"a||b", OrOr},
		{"a;b", Semi},
		{"a;;b", SemiSemi},
		{"a;&b", SemiAmp},
		{"a;;&b", SemiSemiA},
		{"a&b", Amp},
		{"a<b", RedirectOp},
		{"a>b", RedirectOp},
		{"a>>b", RedirectOp},
		{"a<<b", RedirectOp},
		{"a<<-b", RedirectOp},
		{"a<<<b", RedirectOp},
		{"a>&b", RedirectOp},
		{"a&>b", RedirectOp},
		{"a&>>b", RedirectOp},
	}
	for _, c := range cases {
		toks, err := Tokenize(c.src)
		require.NoError(t, err, c.src)
		require.GreaterOrEqual(t, len(toks), 3, c.src)
		assert.Equal(t, c.want, toks[1].Kind, c.src)
	}
}

func TestTokenize_QuotedStrings(t *testing.T) {
	toks, err := Tokenize(`echo 'single' "double $x" $'ansi\n'`)
	require.NoError(t, err)
	require.Equal(t, []Kind{Word, SingleQuoted, DoubleQuoted, DollarQuoted, EOF}, kinds(toks))
	assert.Equal(t, "single", toks[1].Value)
	assert.Equal(t, `double $x`, toks[2].Value)
	assert.Equal(t, `ansi\n`, toks[3].Value)
}

func TestTokenize_SingleQuotedPreservesLiteralText(t *testing.T) {
	toks, err := Tokenize(`'it'\''s'`)
	require.NoError(t, err)
	// 'it' SingleQuoted("it"), then \' is a word-escape, then 's' SingleQuoted("s")
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, SingleQuoted, toks[0].Kind)
	assert.Equal(t, "it", toks[0].Value)
}

func TestTokenize_UnterminatedSingleQuote(t *testing.T) {
	_, err := Tokenize(`echo 'oops`)
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, UnterminatedString, lexErr.Kind)
}

func TestTokenize_UnterminatedDoubleQuote(t *testing.T) {
	_, err := Tokenize(`echo "oops`)
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, UnterminatedString, lexErr.Kind)
}

func TestTokenize_DollarVariable(t *testing.T) {
	toks, err := Tokenize(`echo $foo $1 $@ $$`)
	require.NoError(t, err)
	var vars []Token
	for _, tok := range toks {
		if tok.Kind == Variable {
			vars = append(vars, tok)
		}
	}
	require.Len(t, vars, 4)
	assert.Equal(t, "foo", vars[0].Value)
	assert.Equal(t, "1", vars[1].Value)
	assert.Equal(t, "@", vars[2].Value)
	assert.Equal(t, "$", vars[3].Value)
}

func TestTokenize_BraceParamExpansionVsSimpleVariable(t *testing.T) {
	toks, err := Tokenize(`echo ${foo} ${foo:-bar}`)
	require.NoError(t, err)
	var expansions []Token
	for _, tok := range toks {
		if tok.Kind == Variable || tok.Kind == ParamExpansion {
			expansions = append(expansions, tok)
		}
	}
	require.Len(t, expansions, 2)
	assert.Equal(t, Variable, expansions[0].Kind)
	assert.Equal(t, "foo", expansions[0].Value)
	assert.Equal(t, ParamExpansion, expansions[1].Kind)
	assert.Equal(t, "foo:-bar", expansions[1].Value)
}

func TestTokenize_CommandSubstBalancedParens(t *testing.T) {
	toks, err := Tokenize(`x=$(echo $(echo inner))`)
	require.NoError(t, err)
	var subst Token
	found := false
	for _, tok := range toks {
		if tok.Kind == CommandSubst {
			subst = tok
			found = true
			break
		}
	}
	require.True(t, found)
	assert.Equal(t, "echo $(echo inner)", subst.Value)
}

func TestTokenize_ArithExpansionIsSingleToken(t *testing.T) {
	toks, err := Tokenize(`x=$((1 + 2 * (3 - 1)))`)
	require.NoError(t, err)
	var arith Token
	found := false
	for _, tok := range toks {
		if tok.Kind == ArithExpansion {
			arith = tok
			found = true
			break
		}
	}
	require.True(t, found)
	assert.Equal(t, "1 + 2 * (3 - 1)", arith.Value)
}

func TestTokenize_BareDoubleParenArithCommand(t *testing.T) {
	toks, err := Tokenize(`((x = x + 1))`)
	require.NoError(t, err)
	require.Equal(t, ArithExpansion, toks[0].Kind)
	assert.Equal(t, "x = x + 1", toks[0].Value)
}

func TestTokenize_BacktickVsDollarParenDistinct(t *testing.T) {
	toks, err := Tokenize("x=`echo hi`\ny=$(echo hi)")
	require.NoError(t, err)
	var gotBacktick, gotSubst bool
	for _, tok := range toks {
		if tok.Kind == Backtick {
			gotBacktick = true
			assert.Equal(t, "echo hi", tok.Value)
		}
		if tok.Kind == CommandSubst {
			gotSubst = true
			assert.Equal(t, "echo hi", tok.Value)
		}
	}
	assert.True(t, gotBacktick)
	assert.True(t, gotSubst)
}

func TestTokenize_Heredoc(t *testing.T) {
	src := "cat <<EOF\nline one\nline two\nEOF\necho after\n"
	toks, err := Tokenize(src)
	require.NoError(t, err)
	var body Token
	found := false
	for _, tok := range toks {
		if tok.Kind == HeredocBody {
			body = tok
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, "line one\nline two\n", body.Value)
}

func TestTokenize_HeredocStripLeadingTabs(t *testing.T) {
	src := "cat <<-EOF\n\tline one\n\tEOF\n"
	toks, err := Tokenize(src)
	require.NoError(t, err)
	var body Token
	found := false
	for _, tok := range toks {
		if tok.Kind == HeredocBody {
			body = tok
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, "line one\n", body.Value)
}

func TestTokenize_UnterminatedHeredoc(t *testing.T) {
	_, err := Tokenize("cat <<EOF\nline one\n")
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, UnterminatedHeredoc, lexErr.Kind)
}

func TestTokenize_BracketWordsReclassified(t *testing.T) {
	toks, err := Tokenize(`[ -f foo ] && [[ -z "$x" ]]`)
	require.NoError(t, err)
	require.Equal(t, LBracket, toks[0].Kind)
	var closeIdx int
	for i, tok := range toks {
		if tok.Kind == RBracket {
			closeIdx = i
			break
		}
	}
	require.NotZero(t, closeIdx)
	foundDouble := false
	for _, tok := range toks {
		if tok.Kind == DLBracket || tok.Kind == DRBracket {
			foundDouble = true
		}
	}
	assert.True(t, foundDouble)
}

func TestTokenize_CommentRequiresWordBoundary(t *testing.T) {
	toks, err := Tokenize("echo hi#not-a-comment\n# real comment\n")
	require.NoError(t, err)
	var comments []Token
	var words []Token
	for _, tok := range toks {
		if tok.Kind == Comment {
			comments = append(comments, tok)
		}
		if tok.Kind == Word {
			words = append(words, tok)
		}
	}
	require.Len(t, comments, 1)
	assert.Equal(t, "# real comment", comments[0].Value)
	assert.Contains(t, words[1].Value, "#")
}

func TestTokenize_LineContinuation(t *testing.T) {
	toks, err := Tokenize("echo foo \\\n  bar\n")
	require.NoError(t, err)
	require.Equal(t, []Kind{Word, Word, Word, Newline, EOF}, kinds(toks))
}

func TestTokenize_LineAndColumnTracking(t *testing.T) {
	toks, err := Tokenize("echo a\necho b\n")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(toks), 4)
	assert.Equal(t, 1, toks[0].Span.StartLine)
	assert.Equal(t, 1, toks[0].Span.StartCol)
	secondLineWord := toks[3]
	assert.Equal(t, "echo", secondLineWord.Value)
	assert.Equal(t, 2, secondLineWord.Span.StartLine)
	assert.Equal(t, 1, secondLineWord.Span.StartCol)
}

func TestTokenize_ProcessSubstitution(t *testing.T) {
	toks, err := Tokenize(`diff <(sort a) <(sort b)`)
	require.NoError(t, err)
	var subs []Token
	for _, tok := range toks {
		if tok.Kind == ProcessSubst {
			subs = append(subs, tok)
		}
	}
	require.Len(t, subs, 2)
	assert.Equal(t, "sort a", subs[0].Value)
	assert.Equal(t, "sort b", subs[1].Value)
}
