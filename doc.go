/*
Package nvimsul exposes a headless Neovim instance as a system under learning
(SUL) for active automata learning.

A learner sees the editor only through membership queries: a fresh instance is
spawned, one symbol (a key in Neovim key notation) is delivered at a time and
the mode reported after every symbol is classified into a canonical state. The
observed machine is a Moore machine whose outputs are those states.

Every query starts from a pristine process. Post tears the process down and
spawns a new one, so no history (registers, marks, jump list, last visual
selection) can leak from one query into the next. A configuration profile
removes the remaining sources of non-determinism before the first symbol is
sent.

# Usage

	sul, err := nvimsul.New(nvimsul.WithTimeout(5 * time.Second))
	if err != nil {
		log.Fatal(err)
	}
	defer sul.Close()

	trace, err := sul.Query(ctx, domain.Word{":", "<Esc>", "v"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(trace.Outputs) // [Normal Command-line editing Normal Visual]

A learning driver only needs the Pre/Step/Post contract of ports.SUL, which
*SUL satisfies. See pkg/learning for the built-in driver, the query cache and
the driver registry.
*/
package nvimsul
