package registry

// pagesABI is the callable surface of the pages registry contract.
const pagesABI = `[
  {"type":"function","name":"createPage","stateMutability":"nonpayable",
    "inputs":[{"name":"contractAddress","type":"address"},{"name":"contentHash","type":"bytes"}],
    "outputs":[]},
  {"type":"function","name":"updatePageContentHash","stateMutability":"nonpayable",
    "inputs":[{"name":"pageId","type":"bytes32"},{"name":"contentHash","type":"bytes"}],
    "outputs":[]},
  {"type":"function","name":"destroyPage","stateMutability":"nonpayable",
    "inputs":[{"name":"pageId","type":"bytes32"}],
    "outputs":[]},
  {"type":"function","name":"pageContentHashes","stateMutability":"view",
    "inputs":[{"name":"pageId","type":"bytes32"}],
    "outputs":[{"name":"","type":"bytes"}]},
  {"type":"function","name":"pageContractAddresses","stateMutability":"view",
    "inputs":[{"name":"pageId","type":"bytes32"}],
    "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"reserveName","stateMutability":"payable",
    "inputs":[{"name":"pageId","type":"bytes32"},{"name":"name","type":"string"},{"name":"durationInMonths","type":"uint256"}],
    "outputs":[]},
  {"type":"function","name":"releaseName","stateMutability":"nonpayable",
    "inputs":[{"name":"pageId","type":"bytes32"}],
    "outputs":[]},
  {"type":"function","name":"getReservedName","stateMutability":"view",
    "inputs":[{"name":"name","type":"string"}],
    "outputs":[{"name":"","type":"bytes32"}]},
  {"type":"function","name":"calculateReservationCost","stateMutability":"view",
    "inputs":[{"name":"durationInMonths","type":"uint256"},{"name":"name","type":"string"}],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"shortNameThreshold","stateMutability":"view",
    "inputs":[],
    "outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"owner","stateMutability":"view",
    "inputs":[],
    "outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"donate","stateMutability":"payable",
    "inputs":[],
    "outputs":[]},
  {"type":"event","name":"PageCreated","anonymous":false,
    "inputs":[
      {"name":"pageId","type":"bytes32","indexed":true},
      {"name":"creator","type":"address","indexed":true},
      {"name":"contractAddress","type":"address","indexed":false}]}
]`
