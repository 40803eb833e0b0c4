package verilog

import (
	"fmt"
	"strings"
)

var keywords = func() map[string]bool {
	m := make(map[string]bool)
	for _, k := range strings.Fields(`always and assign automatic begin buf bufif0 bufif1 case casex casez
cell cmos config deassign default defparam design disable edge else end endcase endconfig
endfunction endgenerate endmodule endprimitive endspecify endtable endtask event for force
forever fork function generate genvar highz0 highz1 if ifnone incdir include initial inout
input instance integer join large liblist library localparam macromodule medium module nand
negedge nmos nor noshowcancelled not notif0 notif1 or output parameter pmos posedge primitive
pull0 pull1 pulldown pullup pulsestyle_onevent pulsestyle_ondetect rcmos real realtime reg
release repeat rnmos rpmos rtran rtranif0 rtranif1 scalared showcancelled signed small specify
specparam strong0 strong1 supply0 supply1 table task time tran tranif0 tranif1 tri tri0 tri1
triand trior trireg unsigned use uwire vectored wait wand weak0 weak1 while wire wor xnor xor`) {
		m[k] = true
	}
	return m
}()

// Ident renders name as a Verilog identifier. Keywords and names that are
// not simple identifiers, like qualified module names, become escaped
// identifiers, which end at the trailing space.
func Ident(name string) string {
	if keywords[name] || !simpleIdent(name) {
		return `\` + name + " "
	}
	return name
}

func simpleIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '$'):
		default:
			return false
		}
	}
	return true
}

// namer hands out names that collide with nothing declared in the module.
type namer struct {
	used map[string]bool
	next int
	nets map[string]string
}

func newNamer(declared []string) *namer {
	n := &namer{used: make(map[string]bool, len(declared)), nets: make(map[string]string)}
	for _, d := range declared {
		n.used[d] = true
	}
	return n
}

// fresh returns the next free sN.
func (n *namer) fresh() string {
	for {
		name := fmt.Sprintf("s%d", n.next)
		n.next++
		if !n.used[name] && !keywords[name] {
			n.used[name] = true
			return name
		}
	}
}

// net returns the wire carrying port of instance inst, <inst>_<port>
// unless that name is taken.
func (n *namer) net(inst, port string) string {
	key := inst + "." + port
	if name, ok := n.nets[key]; ok {
		return name
	}
	base := inst + "_" + port
	name := base
	for i := 1; n.used[name] || keywords[name]; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	n.used[name] = true
	n.nets[key] = name
	return name
}
