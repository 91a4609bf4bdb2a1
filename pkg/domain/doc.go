/*
Package domain contains the core domain models of the nvimsul system under learning.

It defines the vocabulary shared by the adapter, the classifier and the learning
drivers. This package is kept pure and free of external dependencies like process
management or RPC, following Hexagonal Architecture principles.

# Key Entities

  - Symbol / Alphabet: the finite, ordered input vocabulary fed to the editor.
  - RawMode: the editor's native mode descriptor (code + blocking flag).
  - CanonicalState: the classified, finite Moore-machine output.
  - Trace: the observations produced by one membership query.
  - Hypothesis: the transition graph produced by a learning driver.
*/
package domain
