package profile

// Default returns the shipped profile.
func Default() *Profile {
	const (
		jumplist   = "result depends on the jump list"
		lastVisual = "gv depends on the last visual selection"
		buffer     = "result depends on buffer content"
		exCommand  = "would run an ex command with environment dependent effects"
	)
	return &Profile{
		Keymaps: []KeymapOverride{
			{Mode: ModeNormal, LHS: "<C-i>", Reason: jumplist},
			{Mode: ModeNormal, LHS: "<C-o>", Reason: jumplist},
			// Remembering the last selection kind roughly doubles the machine.
			{Mode: ModeNormal, LHS: "gv", RHS: "v", Reason: lastVisual},
			{Mode: ModeVisual, LHS: "gv", Reason: lastVisual},

			// Nothing typed in insert mode may reach the buffer.
			{Mode: ModeInsert, LHS: "$", Reason: buffer},
			{Mode: ModeInsert, LHS: "/", Reason: buffer},
			{Mode: ModeInsert, LHS: "0", Reason: buffer},
			{Mode: ModeInsert, LHS: ":", Reason: buffer},
			{Mode: ModeInsert, LHS: "<CR>", Reason: buffer},
			{Mode: ModeInsert, LHS: "c", Reason: buffer},
			{Mode: ModeInsert, LHS: "g", Reason: buffer},
			{Mode: ModeInsert, LHS: "h", Reason: buffer},
			{Mode: ModeInsert, LHS: "l", Reason: buffer},
			{Mode: ModeInsert, LHS: "r", Reason: buffer},
			{Mode: ModeInsert, LHS: "v", Reason: buffer},
			{Mode: ModeInsert, LHS: "w", Reason: buffer},

			// "/$" is a search motion whose outcome grows with what follows it.
			{Mode: ModeOperatorPending, LHS: "/$", Reason: buffer},

			{Mode: ModeCommandLine, LHS: ":", Reason: "::g would behave like :g"},
			{Mode: ModeCommandLine, LHS: "<C-g>", Reason: "E492: Not an editor command"},
			{Mode: ModeCommandLine, LHS: "<C-o>", Reason: "E492: Not an editor command"},
			{Mode: ModeCommandLine, LHS: "<C-v>", Reason: "would still insert literal w, i, c"},
			{Mode: ModeCommandLine, LHS: "c", Reason: exCommand + " (:change)"},
			{Mode: ModeCommandLine, LHS: "g", Reason: exCommand + " (:global, :grep)"},
			{Mode: ModeCommandLine, LHS: "h", Reason: exCommand + " (:help)"},
			{Mode: ModeCommandLine, LHS: "i", Reason: exCommand + " (:insert)"},
			{Mode: ModeCommandLine, LHS: "l", Reason: exCommand + " (:list)"},
			{Mode: ModeCommandLine, LHS: "r", Reason: exCommand + " (:read)"},
			{Mode: ModeCommandLine, LHS: "v", Reason: exCommand + " (:vglobal)"},
			{Mode: ModeCommandLine, LHS: "w", Reason: exCommand + " (:write depends on the file system)"},

			{Mode: ModeNormal, LHS: "r<C-v>", Reason: "r<C-v>000 replaces by decimal code and inflates the machine"},
			{Mode: ModeLanguage, LHS: "/$", Reason: buffer},
		},
		Options: []OptionOverride{
			{Name: "cmdheight", Value: 2, Reason: "avoid more-prompts"},
			{Name: "complete", Value: "k/dev/null", Reason: "completion sources must not depend on the environment"},
			{Name: "shortmess", Value: "filnxtToOsWAIcqFSI", Reason: "message length must not depend on terminal width"},
			{Name: "showcmd", Value: false},
			{Name: "showmode", Value: false, Reason: "mode messages trigger hit-enter prompts"},
			{Name: "timeout", Value: false, Reason: "mapping resolution must not depend on timing"},
			{Name: "ttimeout", Value: false, Reason: "key code resolution must not depend on timing"},
			{Name: "writeany", Value: true, Reason: "avoid 'file already exists' prompts"},
		},
	}
}
