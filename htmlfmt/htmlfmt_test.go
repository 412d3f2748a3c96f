package htmlfmt

import (
	"testing"

	"github.com/adnsv/iconfont/config"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	src := `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>  icons  </title>
<style>
.a {
color: red;
}
</style></head>
<body><ul>
<li title=".x-home"><div class="icon"><i class="x x-home"></i></div><div class="name">.x-home</div></li>
</ul><br></body></html>`

	opts := config.Default().Format
	opts.TabWidth = 2
	assert.Equal(t, `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>icons</title>
    <style>
      .a {
        color: red;
      }
    </style>
  </head>
  <body>
    <ul>
      <li title=".x-home">
        <div class="icon">
          <i class="x x-home"></i>
        </div>
        <div class="name">.x-home</div>
      </li>
    </ul>
    <br>
  </body>
</html>
`, Format(src, opts))
}

func TestFormatWidth(t *testing.T) {
	opts := config.Default().Format
	opts.UseTabs = true
	opts.PrintWidth = 10
	opts.EndOfLine = "crlf"
	assert.Equal(t, "<p>\r\n\ta long caption\r\n</p>\r\n", Format("<p>a long caption</p>", opts))
	assert.Equal(t, "", Format("  ", opts))
}
